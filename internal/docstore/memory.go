package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryCollection struct {
	mu   sync.RWMutex
	docs []Document
}

// MemoryStore es el backend en memoria. Cada colección tiene su propio lock:
// las inserciones se serializan y las lecturas nunca ven una inserción a medias.
type MemoryStore struct {
	collections map[Collection]*memoryCollection
	newID       IDGenerator
}

// NewMemoryStore crea un almacén vacío con las colecciones conocidas.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithIDs(NewID)
}

// NewMemoryStoreWithIDs permite inyectar el generador de identificadores (tests).
func NewMemoryStoreWithIDs(gen IDGenerator) *MemoryStore {
	s := &MemoryStore{
		collections: make(map[Collection]*memoryCollection, len(Collections)),
		newID:       gen,
	}
	for _, c := range Collections {
		s.collections[c] = &memoryCollection{}
	}
	return s
}

func (s *MemoryStore) collection(coll Collection) (*memoryCollection, error) {
	c, ok := s.collections[coll]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}
	return c, nil
}

// Insert guarda una copia del documento etiquetada con un identificador nuevo.
func (s *MemoryStore) Insert(_ context.Context, coll Collection, doc Document) (string, error) {
	c, err := s.collection(coll)
	if err != nil {
		return "", err
	}

	stored := cloneDocument(doc)
	if stored == nil {
		stored = Document{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// El id se genera bajo el lock para que el orden de ids coincida con el de inserción.
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	stored[IDField] = id
	c.docs = append(c.docs, stored)
	return id, nil
}

// snapshot devuelve la vista actual de la colección. Los documentos
// guardados nunca se modifican, basta con copiar la cabecera del slice.
func (c *memoryCollection) snapshot() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.docs[:len(c.docs):len(c.docs)]
}

// FindOne devuelve el primer documento en orden de inserción que cumple el filtro.
func (s *MemoryStore) FindOne(_ context.Context, coll Collection, filter Filter) (Document, error) {
	c, err := s.collection(coll)
	if err != nil {
		return nil, err
	}
	m, err := Compile(filter)
	if err != nil {
		return nil, err
	}

	for _, doc := range c.snapshot() {
		if m.Match(doc) {
			return cloneDocument(doc), nil
		}
	}
	return nil, ErrNoDocuments
}

// FindMany filtra la colección completa, ordena, y sólo entonces aplica skip/limit.
func (s *MemoryStore) FindMany(_ context.Context, coll Collection, filter Filter, opts FindOptions) ([]Document, int64, error) {
	matched, err := s.match(coll, filter)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(matched))

	if opts.SortKey != "" {
		sortDocuments(matched, opts.SortKey, opts.SortDir)
	}

	page := applyWindow(matched, opts.Skip, opts.Limit)
	out := make([]Document, len(page))
	for i, doc := range page {
		out[i] = cloneDocument(doc)
	}
	return out, total, nil
}

// Count devuelve el tamaño del conjunto filtrado completo.
func (s *MemoryStore) Count(_ context.Context, coll Collection, filter Filter) (int64, error) {
	matched, err := s.match(coll, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// Ping siempre responde: no hay nada externo que comprobar.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Name identifica el backend.
func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) match(coll Collection, filter Filter) ([]Document, error) {
	c, err := s.collection(coll)
	if err != nil {
		return nil, err
	}
	m, err := Compile(filter)
	if err != nil {
		return nil, err
	}

	docs := c.snapshot()
	matched := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if m.Match(doc) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// sortDocuments es estable: los empates conservan el orden de inserción.
func sortDocuments(docs []Document, key string, dir SortDirection) {
	sort.SliceStable(docs, func(i, j int) bool {
		c := compareValues(docs[i][key], docs[j][key])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
}

func applyWindow(docs []Document, skip, limit int64) []Document {
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(docs)) {
		return nil
	}
	docs = docs[skip:]
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}

var _ Backend = (*MemoryStore)(nil)
