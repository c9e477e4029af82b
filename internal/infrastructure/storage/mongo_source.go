package storage

import (
	"bytes"
	"context"
	"fmt"

	infraconfig "github.com/spendlens/backend/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSource reads every document of a collection holding raw extraction
// results and renders them as a JSON array of relaxed extended JSON.
type MongoSource struct {
	client     *mongo.Client
	database   string
	collection string
	logger     *zap.Logger
}

// NewMongoSource connects to cfg.URI and targets collection in cfg.Database
func NewMongoSource(ctx context.Context, cfg *infraconfig.MongoConfig, collection string, logger *zap.Logger) (*MongoSource, error) {
	if cfg == nil || cfg.URI == "" {
		return nil, fmt.Errorf("mongo.uri is required to import from a collection")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo.database is required to import from a collection")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoSource{
		client:     client,
		database:   cfg.Database,
		collection: collection,
		logger:     logger,
	}, nil
}

// Load fetches all documents of the collection
func (s *MongoSource) Load(ctx context.Context) ([]byte, error) {
	cursor, err := s.client.Database(s.database).Collection(s.collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find documents in %s: %w", s.Describe(), err)
	}

	var docs []bson.Raw
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read documents from %s: %w", s.Describe(), err)
	}
	s.logger.Debug("Fetched extraction documents",
		zap.String("collection", s.collection),
		zap.Int("documents", len(docs)),
	)
	return encodeDocuments(docs)
}

// Describe returns database.collection
func (s *MongoSource) Describe() string {
	return "mongodb:" + s.database + "." + s.collection
}

// Close disconnects the client
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// encodeDocuments renders docs as [doc, doc, ...] in relaxed extended JSON,
// where ObjectIDs appear as {"$oid": "..."}.
func encodeDocuments(docs []bson.Raw) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, doc := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		js, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return nil, fmt.Errorf("encode document %d: %w", i, err)
		}
		buf.Write(js)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
