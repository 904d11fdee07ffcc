package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/metrics"
)

const generationsCollection = "generations"

type MongoGenerationRepo struct {
	col *mongo.Collection
}

var _ repository.GenerationJournal = (*MongoGenerationRepo)(nil)

func NewMongoGenerationRepo(db *mongo.Database) *MongoGenerationRepo {
	return &MongoGenerationRepo{
		col: db.Collection(generationsCollection),
	}
}

// EnsureIndexes creates the lookup indexes. Records can still be written when
// it fails, so callers decide whether that is fatal.
func (r *MongoGenerationRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "script_id", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		metrics.IncError("mongo_generation_repo", "index_error")
		return fmt.Errorf("create %s indexes: %w", generationsCollection, err)
	}
	return nil
}

func (r *MongoGenerationRepo) Record(ctx context.Context, g *entity.Generation) error {
	_, err := r.col.InsertOne(ctx, g)
	if err != nil {
		metrics.IncJournalWrite("error")
		metrics.IncError("mongo_generation_repo", "insert_error")
		return err
	}
	metrics.IncJournalWrite("ok")
	return nil
}
