package docstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"catalog-orders/internal/docstore"
)

func sequentialIDs() docstore.IDGenerator {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("id-%03d", n), nil
	}
}

func product(name string, price float64, sizes ...string) docstore.Document {
	arr := bson.A{}
	for _, s := range sizes {
		arr = append(arr, bson.M{"size": s, "quantity": 1})
	}
	return docstore.Document{"name": name, "price": price, "sizes": arr}
}

func seed(t *testing.T, s *docstore.MemoryStore, docs ...docstore.Document) []string {
	t.Helper()
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		id, err := s.Insert(context.Background(), docstore.Products, d)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func names(docs []docstore.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["name"].(string))
	}
	return out
}

func TestMemoryStore_InsertAssignsIDs(t *testing.T) {
	s := docstore.NewMemoryStoreWithIDs(sequentialIDs())
	input := product("Red Shirt", 10, "M")

	ids := seed(t, s, input, product("Blue Jeans", 20))
	assert.Equal(t, []string{"id-001", "id-002"}, ids)
	_, tagged := input[docstore.IDField]
	assert.False(t, tagged, "caller document must not be mutated")

	doc, err := s.FindOne(context.Background(), docstore.Products, docstore.Filter{docstore.IDField: docstore.Equals("id-002")})
	require.NoError(t, err)
	assert.Equal(t, "Blue Jeans", doc["name"])
}

func TestMemoryStore_FindOne(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()
	seed(t, s, product("Hat", 5), product("Hat", 7), product("Scarf", 9))

	doc, err := s.FindOne(ctx, docstore.Products, docstore.Filter{"name": docstore.Equals("Hat")})
	require.NoError(t, err)
	assert.Equal(t, 5.0, doc["price"], "first match in storage order")

	_, err = s.FindOne(ctx, docstore.Products, docstore.Filter{"name": docstore.Equals("Gloves")})
	assert.ErrorIs(t, err, docstore.ErrNoDocuments)

	again, err := s.FindOne(ctx, docstore.Products, docstore.Filter{"name": docstore.Equals("Hat")})
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestMemoryStore_ReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()
	ids := seed(t, s, product("Hat", 5, "S"))

	doc, err := s.FindOne(ctx, docstore.Products, docstore.Filter{docstore.IDField: docstore.Equals(ids[0])})
	require.NoError(t, err)
	doc["name"] = "changed"
	doc["sizes"].(bson.A)[0].(bson.M)["size"] = "XXL"

	fresh, err := s.FindOne(ctx, docstore.Products, docstore.Filter{docstore.IDField: docstore.Equals(ids[0])})
	require.NoError(t, err)
	assert.Equal(t, "Hat", fresh["name"])
	assert.Equal(t, "S", fresh["sizes"].(bson.A)[0].(bson.M)["size"])
}

func TestMemoryStore_FilterSemantics(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()
	seed(t, s,
		product("Red Shirt", 100, "S", "M"),
		product("Green Shirt", 50, "M-L"),
		product("red hat", 25, "L"),
		docstore.Document{"price": 1.0},
	)

	tests := []struct {
		name   string
		filter docstore.Filter
		want   []string
	}{
		{"empty filter", docstore.Filter{}, nil},
		{"equality", docstore.Filter{"price": docstore.Equals(50)}, []string{"Green Shirt"}},
		{"equality int vs float", docstore.Filter{"price": docstore.Equals(int64(100))}, []string{"Red Shirt"}},
		{"regex lowercase", docstore.Filter{"name": docstore.ContainsFold("red")}, []string{"Red Shirt", "red hat"}},
		{"regex uppercase", docstore.Filter{"name": docstore.ContainsFold("SHIRT")}, []string{"Red Shirt", "Green Shirt"}},
		{"regex escapes literal", docstore.Filter{"name": docstore.ContainsFold("r.d")}, []string{}},
		{"elem match exact", docstore.Filter{"sizes": docstore.ElementMatch("size", "M")}, []string{"Red Shirt"}},
		{"elem match other", docstore.Filter{"sizes": docstore.ElementMatch("size", "M-L")}, []string{"Green Shirt"}},
		{"and semantics", docstore.Filter{
			"name":  docstore.ContainsFold("red"),
			"sizes": docstore.ElementMatch("size", "L"),
		}, []string{"red hat"}},
		{"missing field", docstore.Filter{"color": docstore.Equals("red")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, total, err := s.FindMany(ctx, docstore.Products, tt.filter, docstore.FindOptions{})
			require.NoError(t, err)
			count, err := s.Count(ctx, docstore.Products, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, total, count, "count and unrestricted find agree")
			assert.EqualValues(t, len(docs), total)

			if tt.want == nil {
				assert.Len(t, docs, 4)
				return
			}
			got := make([]string, 0)
			for _, d := range docs {
				got = append(got, d["name"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryStore_MissingFieldEqualsNil(t *testing.T) {
	s := docstore.NewMemoryStore()
	seed(t, s, product("Hat", 5), docstore.Document{"name": "Tagged", "color": "red"})

	n, err := s.Count(context.Background(), docstore.Products, docstore.Filter{"color": docstore.Equals(nil)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMemoryStore_UnsupportedOperator(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()
	seed(t, s, product("Hat", 5))

	_, _, err := s.FindMany(ctx, docstore.Products, docstore.Filter{"price": docstore.Equals(bson.M{"$gt": 1})}, docstore.FindOptions{})
	assert.ErrorIs(t, err, docstore.ErrUnsupportedOperator)

	_, err = s.Count(ctx, docstore.Products, docstore.Filter{"price": {Kind: docstore.PredicateKind(42)}})
	assert.ErrorIs(t, err, docstore.ErrUnsupportedOperator)

	_, err = s.FindOne(ctx, docstore.Products, docstore.Filter{"sizes": docstore.ElementMatch("", "M")})
	assert.ErrorIs(t, err, docstore.ErrUnsupportedOperator)
}

func TestMemoryStore_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()

	_, err := s.Insert(ctx, docstore.Collection("users"), docstore.Document{})
	assert.ErrorIs(t, err, docstore.ErrUnknownCollection)
	_, err = s.Count(ctx, docstore.Collection("users"), nil)
	assert.ErrorIs(t, err, docstore.ErrUnknownCollection)
}

func TestMemoryStore_SortSkipLimit(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()
	seed(t, s,
		product("Charlie", 3),
		product("Alpha", 1),
		docstore.Document{"price": 0.5},
		product("Bravo", 2),
	)

	docs, total, err := s.FindMany(ctx, docstore.Products, docstore.Filter{"name": docstore.ContainsFold("a")},
		docstore.FindOptions{SortKey: "name", SortDir: docstore.Ascending, Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total, "total ignores skip and limit")
	assert.Equal(t, []string{"Bravo"}, names(docs))

	docs, _, err = s.FindMany(ctx, docstore.Products, nil, docstore.FindOptions{SortKey: "name", SortDir: docstore.Descending})
	require.NoError(t, err)
	require.Len(t, docs, 4)
	assert.Equal(t, []string{"Charlie", "Bravo", "Alpha"}, names(docs[:3]))
	assert.NotContains(t, docs[3], "name", "missing sort key sorts as minimal")

	docs, total, err = s.FindMany(ctx, docstore.Products, nil, docstore.FindOptions{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Empty(t, docs)
}

func TestMemoryStore_SortByIDFollowsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()

	var want []string
	for i := 0; i < 50; i++ {
		id, err := s.Insert(ctx, docstore.Orders, docstore.Document{"userId": "u1", "n": i})
		require.NoError(t, err)
		want = append(want, id)
	}

	docs, _, err := s.FindMany(ctx, docstore.Orders, docstore.Filter{"userId": docstore.Equals("u1")},
		docstore.FindOptions{SortKey: docstore.IDField, SortDir: docstore.Ascending})
	require.NoError(t, err)
	got := make([]string, 0, len(docs))
	for _, d := range docs {
		got = append(got, d[docstore.IDField].(string))
	}
	assert.Equal(t, want, got)
}

func TestMemoryStore_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := s.Insert(ctx, docstore.Orders, docstore.Document{"worker": w, "i": i})
				assert.NoError(t, err)
				_, err = s.Count(ctx, docstore.Orders, nil)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	docs, total, err := s.FindMany(ctx, docstore.Orders, nil, docstore.FindOptions{SortKey: docstore.IDField, SortDir: docstore.Ascending})
	require.NoError(t, err)
	assert.EqualValues(t, workers*perWorker, total)

	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		id := d[docstore.IDField].(string)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if i > 0 {
			assert.Less(t, docs[i-1][docstore.IDField].(string), id)
		}
	}
}
