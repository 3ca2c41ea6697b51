package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/CommentGoat/internal/types"
)

// commentDocument is the stored form of a record in database backends.
type commentDocument struct {
	RunID         string    `bson:"run_id"`
	Source        string    `bson:"source"`
	ExtractedAt   time.Time `bson:"extracted_at"`
	CommentID     string    `bson:"comment_id"`
	ParentID      *string   `bson:"parent_id"`
	Text          string    `bson:"text"`
	TimestampText string    `bson:"timestamp_text"`
	ReactionCount int       `bson:"reaction_count"`
	CommentType   string    `bson:"comment_type"`
}

func documentsFor(pass *types.Pass) []commentDocument {
	docs := make([]commentDocument, len(pass.Records))
	for i := range pass.Records {
		rec := &pass.Records[i]
		docs[i] = commentDocument{
			RunID:         pass.ID,
			Source:        pass.Source,
			ExtractedAt:   pass.ExtractedAt,
			CommentID:     rec.ID,
			ParentID:      rec.ParentID,
			Text:          rec.Text,
			TimestampText: rec.TimestampText,
			ReactionCount: rec.ReactionCount,
			CommentType:   string(rec.CommentType),
		}
	}
	return docs
}

// MongoStorage writes records to a MongoDB collection.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	mu         sync.Mutex
	count      int
	logger     *slog.Logger
}

// NewMongoStorage creates a new MongoDB storage backend.
func NewMongoStorage(uri, database, collection string, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

func (s *MongoStorage) Store(pass *types.Pass) error {
	if len(pass.Records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]any, 0, len(pass.Records))
	for _, d := range documentsFor(pass) {
		docs = append(docs, d)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("insert: %w", err)}
	}

	s.count += len(docs)
	s.logger.Debug("records stored in mongodb", "run_id", pass.ID, "count", len(docs), "total", s.count)
	return nil
}

func (s *MongoStorage) Close() error {
	s.logger.Info("mongodb storage closing", "total_records", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
