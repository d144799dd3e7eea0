// Package docstore persists ingested content records in MongoDB and serves
// the projections the scoring and aggregation passes need. No uniqueness is
// enforced across ingestion runs; re-ingestion may duplicate documents.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/model"
)

// Store wraps the news collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *slog.Logger
}

// Connect establishes the MongoDB connection, verifies it, and ensures the
// query indexes exist.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: logger,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ticker", Value: 1}}},
		{Keys: bson.D{{Key: "published_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// InsertRecord persists one content record. Each insert is independent;
// there is no cross-record transaction.
func (s *Store) InsertRecord(ctx context.Context, rec model.ContentRecord) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// UnscoredDocument is a record awaiting sentiment scoring.
type UnscoredDocument struct {
	ID     bson.ObjectID `bson:"_id"`
	Ticker string        `bson:"ticker"`
	Title  string        `bson:"title"`
	Body   string        `bson:"content"`
}

// Unscored returns up to limit documents that have no sentiment yet.
func (s *Store) Unscored(ctx context.Context, limit int64) ([]UnscoredDocument, error) {
	filter := bson.M{"sentiment.confidence": bson.M{"$exists": false}}

	opts := options.Find().
		SetProjection(bson.M{"ticker": 1, "title": 1, "content": 1}).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find unscored: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []UnscoredDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode unscored: %w", err)
	}
	return docs, nil
}

// SetSentiment patches a single document's sentiment snapshot in place.
func (s *Store) SetSentiment(ctx context.Context, id bson.ObjectID, snap model.SentimentSnapshot) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"sentiment": snap}})
	if err != nil {
		return fmt.Errorf("set sentiment %s: %w", id.Hex(), err)
	}
	return nil
}

// ScoredObservations streams every scored record projected down to what the
// daily aggregation needs, in the store's natural return order. Records
// missing a ticker or published timestamp are skipped.
func (s *Store) ScoredObservations(ctx context.Context) ([]model.SentimentObservation, error) {
	filter := bson.M{"sentiment.confidence": bson.M{"$exists": true, "$ne": nil}}

	opts := options.Find().SetProjection(bson.M{
		"ticker":               1,
		"published_at":         1,
		"sentiment.confidence": 1,
	})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find scored: %w", err)
	}
	defer cursor.Close(ctx)

	var out []model.SentimentObservation
	for cursor.Next(ctx) {
		var doc struct {
			ID          bson.ObjectID `bson:"_id"`
			Ticker      string        `bson:"ticker"`
			PublishedAt time.Time     `bson:"published_at"`
			Sentiment   struct {
				Confidence float64 `bson:"confidence"`
			} `bson:"sentiment"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode observation: %w", err)
		}
		if doc.Ticker == "" || doc.PublishedAt.IsZero() {
			continue
		}
		out = append(out, model.SentimentObservation{
			Ticker:      doc.Ticker,
			PublishedAt: doc.PublishedAt,
			Confidence:  doc.Sentiment.Confidence,
			NewsID:      doc.ID.Hex(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate scored: %w", err)
	}

	return out, nil
}
