package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                           string
		offset, limit, total, returned int
		want                           Metadata
	}{
		{"middle page", 10, 10, 25, 10, Metadata{Next: ptr("20"), Previous: ptr("0"), Limit: 10}},
		{"first page", 0, 10, 25, 10, Metadata{Next: ptr("10"), Limit: 10}},
		{"last short page", 20, 10, 25, 5, Metadata{Previous: ptr("10"), Limit: 5}},
		{"offset smaller than limit", 3, 10, 25, 10, Metadata{Next: ptr("13"), Previous: ptr("0"), Limit: 10}},
		{"exact fit", 0, 10, 10, 10, Metadata{Limit: 10}},
		{"empty", 0, 10, 0, 0, Metadata{Limit: 0}},
		{"offset past end", 40, 10, 25, 0, Metadata{Previous: ptr("30"), Limit: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(tt.offset, tt.limit, tt.total, tt.returned)
			assert.Equal(t, tt.want, got)
		})
	}
}
