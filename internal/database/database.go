package database

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"catalog-orders/internal/docstore"
)

const connectTimeout = 10 * time.Second

// ClientOptions arma las opciones de conexión para Atlas: Server API v1,
// retryWrites y write concern majority.
func ClientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())
}

// Connect abre el cliente y verifica la conexión con un ping al primario.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, ClientOptions(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// Indexes lista los índices que usan las consultas del servicio.
func Indexes() map[docstore.Collection][]mongo.IndexModel {
	return map[docstore.Collection][]mongo.IndexModel{
		docstore.Products: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "sizes.size", Value: 1}}},
		},
		docstore.Orders: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: 1}}},
		},
	}
}

// EnsureIndexes crea los índices. Un fallo no impide arrancar: se registra y sigue.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *log.Entry) {
	for coll, models := range Indexes() {
		names, err := db.Collection(string(coll)).Indexes().CreateMany(ctx, models)
		if err != nil {
			logger.WithError(err).WithField("collection", coll).Warn("could not create indexes")
			continue
		}
		logger.WithFields(log.Fields{"collection": coll, "indexes": names}).Info("indexes ready")
	}
}
