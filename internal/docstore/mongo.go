package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"
)

// MongoStore cumple Backend sobre una base de datos MongoDB real. Los
// identificadores siguen siendo strings opacos generados por la aplicación.
type MongoStore struct {
	db    *mongo.Database
	newID IDGenerator
}

// NewMongoStore envuelve una base de datos ya conectada.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, newID: NewID}
}

func (s *MongoStore) collection(coll Collection) (*mongo.Collection, error) {
	if !coll.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}
	return s.db.Collection(string(coll)), nil
}

// Insert crea el documento con un _id string propio.
func (s *MongoStore) Insert(ctx context.Context, coll Collection, doc Document) (string, error) {
	c, err := s.collection(coll)
	if err != nil {
		return "", err
	}

	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	stored := cloneDocument(doc)
	if stored == nil {
		stored = Document{}
	}
	stored[IDField] = id

	if _, err := c.InsertOne(ctx, stored); err != nil {
		return "", fmt.Errorf("insert into %s: %w", coll, err)
	}
	return id, nil
}

// FindOne traduce el filtro y decodifica el primer resultado en orden natural.
func (s *MongoStore) FindOne(ctx context.Context, coll Collection, filter Filter) (Document, error) {
	c, err := s.collection(coll)
	if err != nil {
		return nil, err
	}
	query, err := ToBSON(filter)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := c.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocuments
		}
		return nil, fmt.Errorf("find one in %s: %w", coll, err)
	}
	return doc, nil
}

// FindMany pide la página con skip/limit/sort y el total filtrado.
func (s *MongoStore) FindMany(ctx context.Context, coll Collection, filter Filter, opts FindOptions) ([]Document, int64, error) {
	c, err := s.collection(coll)
	if err != nil {
		return nil, 0, err
	}
	query, err := ToBSON(filter)
	if err != nil {
		return nil, 0, err
	}

	// El total se cuenta en paralelo con la búsqueda de la página.
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.CountDocuments(gctx, query)
		if err != nil {
			return fmt.Errorf("count %s: %w", coll, err)
		}
		total = n
		return nil
	})

	docs := make([]Document, 0)
	g.Go(func() error {
		cursor, err := c.Find(gctx, query, findOptions(opts))
		if err != nil {
			return fmt.Errorf("find in %s: %w", coll, err)
		}
		defer cursor.Close(gctx)

		if err := cursor.All(gctx, &docs); err != nil {
			return fmt.Errorf("decode %s: %w", coll, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Count usa CountDocuments con el mismo filtro traducido.
func (s *MongoStore) Count(ctx context.Context, coll Collection, filter Filter) (int64, error) {
	c, err := s.collection(coll)
	if err != nil {
		return 0, err
	}
	query, err := ToBSON(filter)
	if err != nil {
		return 0, err
	}
	total, err := c.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll, err)
	}
	return total, nil
}

// Ping comprueba el primario del cluster.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// Name identifica el backend.
func (s *MongoStore) Name() string { return "mongodb" }

func findOptions(opts FindOptions) *options.FindOptions {
	fo := options.Find()
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}
	if opts.SortKey != "" {
		dir := opts.SortDir
		if dir != Descending {
			dir = Ascending
		}
		fo.SetSort(bson.D{{Key: opts.SortKey, Value: int(dir)}})
	}
	return fo
}

// ToBSON traduce un Filter al lenguaje de consulta de MongoDB.
func ToBSON(filter Filter) (bson.M, error) {
	// Compile rechaza los mismos casos que el backend en memoria.
	if _, err := Compile(filter); err != nil {
		return nil, err
	}

	query := bson.M{}
	for name, p := range filter {
		switch p.Kind {
		case KindEquals:
			query[name] = p.Value
		case KindElementMatch:
			query[name] = bson.M{"$elemMatch": bson.M{p.SubField: p.Value}}
		case KindRegexMatch:
			expr := bson.M{"$regex": p.Pattern}
			if p.CaseInsensitive {
				expr["$options"] = "i"
			}
			query[name] = expr
		}
	}
	return query, nil
}

var _ Backend = (*MongoStore)(nil)
