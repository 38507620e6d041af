package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"budget-allocator-api/internal/core/model"
)

// PipelineStore persists successfully completed pipeline runs, implementing
// pipeline.ResultConsumer; failed and cancelled runs are not passed to it.
// It is an optional collaborator, per SPEC_FULL.md §5: when persistence is
// disabled no ResultConsumer is wired and the controller skips this step.
type PipelineStore struct {
	collection *mongo.Collection
}

// NewPipelineStore opens (creating if absent) the "pipelines" collection.
func NewPipelineStore(db *mongo.Database) *PipelineStore {
	return &PipelineStore{collection: db.Collection("pipelines")}
}

type pipelineDocument struct {
	ID       string                      `bson:"_id"`
	Pipeline model.OptimizationPipeline  `bson:"pipeline"`
	Result   *model.EnhancedModelResult  `bson:"result,omitempty"`
	StoredAt time.Time                   `bson:"storedAt"`
}

// Consume upserts the terminal pipeline snapshot and its result. A storage
// failure is logged, not surfaced: a persistence outage must never
// retroactively fail a run that already finished (SPEC_FULL.md §5).
func (s *PipelineStore) Consume(ctx context.Context, result model.EnhancedModelResult, pipeline model.OptimizationPipeline) {
	doc := pipelineDocument{
		ID:       pipeline.ID,
		Pipeline: pipeline,
		Result:   &result,
		StoredAt: time.Now(),
	}
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"_id": pipeline.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Printf("pipeline store: failed to persist pipeline %s: %v", pipeline.ID, err)
	}
}

// GetByID retrieves a previously stored pipeline run by id.
func (s *PipelineStore) GetByID(ctx context.Context, id string) (*model.OptimizationPipeline, error) {
	var doc pipelineDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Pipeline, nil
}

// ListRecent returns the most recently stored runs, newest first.
func (s *PipelineStore) ListRecent(ctx context.Context, limit int) ([]model.OptimizationPipeline, error) {
	opts := options.Find().SetSort(bson.D{{Key: "storedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []pipelineDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.OptimizationPipeline, len(docs))
	for i, d := range docs {
		out[i] = d.Pipeline
	}
	return out, nil
}
