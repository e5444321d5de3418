package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

const (
	defaultDatabase = "fetchm"
	runsCollection  = "runs"
)

// MongoStore archives runs in a MongoDB collection, one document per run.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to uri and prepares the runs collection. The
// connection is verified with a ping so a bad URI fails here, not on the
// first save.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: mongodb ping: %v", cache.ErrNetwork, err)
	}

	runs := client.Database(defaultDatabase).Collection(runsCollection)
	_, err = runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("creating run index: %w", err)
	}
	return &MongoStore{client: client, runs: runs}, nil
}

// SaveRun upserts the dataset keyed by its run ID.
func (s *MongoStore) SaveRun(ctx context.Context, ds *genome.Dataset) error {
	if ds.RunID == "" {
		return errors.New("dataset has no run ID")
	}
	_, err := s.runs.ReplaceOne(ctx,
		bson.M{"run_id": ds.RunID},
		ds,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", ds.RunID, err)
	}
	return nil
}

// LoadRun retrieves a run by ID.
func (s *MongoStore) LoadRun(ctx context.Context, runID string) (*genome.Dataset, error) {
	var ds genome.Dataset
	err := s.runs.FindOne(ctx, bson.M{"run_id": runID}).Decode(&ds)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: run %s", cache.ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return &ds, nil
}

// ListRuns lists stored runs, newest first.
func (s *MongoStore) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetProjection(bson.M{"run_id": 1, "query": 1, "fetched_at": 1, "records": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer cur.Close(ctx)

	var out []RunInfo
	for cur.Next(ctx) {
		var doc struct {
			RunID     string          `bson:"run_id"`
			Query     string          `bson:"query"`
			FetchedAt time.Time       `bson:"fetched_at"`
			Records   []genome.Record `bson:"records"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding run listing: %w", err)
		}
		out = append(out, RunInfo{
			RunID:     doc.RunID,
			Query:     doc.Query,
			FetchedAt: doc.FetchedAt,
			Records:   len(doc.Records),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
