package docstore

import (
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Los documentos pueden venir construidos a mano (bson.M/bson.A) o
// decodificados por el driver (primitive.D, int32...), así que las
// comparaciones normalizan ambas formas.

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]any:
		return t, true
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func lookup(v any, key string) (any, bool) {
	if d, ok := v.(bson.D); ok {
		for _, e := range d {
			if e.Key == key {
				return e.Value, true
			}
		}
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	got, ok := m[key]
	return got, ok
}

func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case bson.A:
		return t, true
	case []any:
		return t, true
	case []bson.M:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

// Rango de tipos para ordenar valores heterogéneos; ausente/nil es el mínimo.
func typeRank(v any) int {
	if v == nil {
		return 0
	}
	if _, ok := asFloat(v); ok {
		return 1
	}
	switch v.(type) {
	case string:
		return 2
	case bson.M, map[string]any, bson.D:
		return 3
	case bson.A, []any:
		return 4
	case primitive.ObjectID:
		return 5
	case bool:
		return 6
	case time.Time, primitive.DateTime:
		return 7
	default:
		return 8
	}
}

func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch ra {
	case 0:
		return 0
	case 1:
		fa, _ := asFloat(a)
		fb, _ := asFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 5:
		return strings.Compare(a.(primitive.ObjectID).Hex(), b.(primitive.ObjectID).Hex())
	case 6:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	case 7:
		return toTime(a).Compare(toTime(b))
	}
	return 0
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	}
	return time.Time{}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cloneValue copia mapas y arrays para que los llamadores no compartan estado con el almacén.
func cloneValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return cloneDocument(t)
	case map[string]any:
		return map[string]any(cloneDocument(t))
	case bson.D:
		out := make(bson.D, len(t))
		for i, e := range t {
			out[i] = bson.E{Key: e.Key, Value: cloneValue(e.Value)}
		}
		return out
	case bson.A:
		out := make(bson.A, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []bson.M:
		out := make([]bson.M, len(t))
		for i := range t {
			out[i] = cloneDocument(t[i])
		}
		return out
	default:
		return v
	}
}

func cloneDocument(doc map[string]any) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}
