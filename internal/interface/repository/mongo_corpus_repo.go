package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/internal/domain/repository"
	"airtalk-service/pkg/logger"
)

// MongoCorpusRepository persists corpus samples as documents in a single
// collection, one document per data/kb pair.
type MongoCorpusRepository struct {
	collection *mongo.Collection
	runID      string
	log        logger.Logger
}

type corpusDocument struct {
	Data      entity.DataRecord    `bson:"data"`
	KB        entity.KnowledgeBase `bson:"kb"`
	RunID     string               `bson:"runId"`
	CreatedAt time.Time            `bson:"createdAt"`
}

// NewMongoCorpusRepository creates a corpus repository on the given
// collection. Documents are tagged with the run id so corpora from different
// runs can share a collection.
func NewMongoCorpusRepository(db *mongo.Database, collection, runID string, log logger.Logger) *MongoCorpusRepository {
	coll := db.Collection(collection)

	idx := mongo.IndexModel{Keys: bson.M{"runId": 1}}
	coll.Indexes().CreateOne(context.Background(), idx)

	return &MongoCorpusRepository{collection: coll, runID: runID, log: log}
}

// Write inserts one aligned record pair.
func (r *MongoCorpusRepository) Write(ctx context.Context, data entity.DataRecord, kb entity.KnowledgeBase) error {
	_, err := r.collection.InsertOne(ctx, corpusDocument{
		Data:      data,
		KB:        kb,
		RunID:     r.runID,
		CreatedAt: time.Now(),
	})
	return err
}

// Close is a no-op, inserts are not buffered.
func (r *MongoCorpusRepository) Close(ctx context.Context) error { return nil }

// Load buffers the whole corpus in memory.
func (r *MongoCorpusRepository) Load(ctx context.Context, dropIncorrect bool) ([]entity.DataRecord, []entity.KnowledgeBase, repository.LoadStats, error) {
	var records []entity.DataRecord
	var kbs []entity.KnowledgeBase
	stats, err := r.Stream(ctx, dropIncorrect, func(data entity.DataRecord, kb entity.KnowledgeBase) error {
		records = append(records, data)
		kbs = append(kbs, kb)
		return nil
	})
	if err != nil {
		return nil, nil, stats, err
	}
	return records, kbs, stats, nil
}

// Stream iterates the run's documents in insertion order. Documents that do
// not decode are skipped and counted.
func (r *MongoCorpusRepository) Stream(ctx context.Context, dropIncorrect bool, fn func(entity.DataRecord, entity.KnowledgeBase) error) (repository.LoadStats, error) {
	var stats repository.LoadStats
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"runId": r.runID}, opts)
	if err != nil {
		return stats, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		stats.Total++
		var doc corpusDocument
		if err := cursor.Decode(&doc); err != nil {
			r.log.Warn("Skipping malformed corpus document", "error", err)
			continue
		}
		if dropIncorrect && !doc.Data.IsCorrect() {
			continue
		}
		stats.Kept++
		if err := fn(doc.Data, doc.KB); err != nil {
			return stats, err
		}
	}
	if stats.Total > 0 {
		r.log.Info("Loaded corpus", "kept", stats.Kept, "total", stats.Total)
	}
	return stats, cursor.Err()
}
