package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/config"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// MongoStore owns the client shared by the Mongo-backed services.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, cfg config.DatabaseConfig) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URL)
	if cfg.ForceTLS12 {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS12,
		})
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(cfg.Name),
	}, nil
}

func (s *MongoStore) Database() *mongo.Database {
	return s.db
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Health pings the server and lists the database's collections.
func (s *MongoStore) Health(ctx context.Context) models.HealthStatus {
	status := models.HealthStatus{
		Database: "not_connected",
		Driver:   config.DriverMongo,
	}

	if err := s.client.Ping(ctx, nil); err != nil {
		status.Error = err.Error()
		return status
	}

	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		status.Error = err.Error()
		return status
	}
	sort.Strings(names)

	status.OK = true
	status.Database = "connected"
	status.Collections = names
	return status
}

// createdOrder sorts by creation time with the id as tie-break.
var createdOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// substringAny builds the $or clauses matching q literally and case-insensitively
// against each field. Array fields match when any element does.
func substringAny(q string, fields ...string) bson.A {
	pattern := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return or
}
