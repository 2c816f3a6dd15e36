package dashboard

import (
	"context"
	"time"

	"campus-incidents/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *KPISnapshot) error
	List(ctx context.Context, since time.Time, limit int64) ([]KPISnapshot, error)
}

type SnapshotRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSnapshotRepository(db *database.MongodbDB) SnapshotRepository {
	return &SnapshotRepositoryImpl{
		collection: db.DB.Collection("kpi_snapshots"),
	}
}

func (r *SnapshotRepositoryImpl) Create(ctx context.Context, snapshot *KPISnapshot) error {
	if snapshot.ID.IsZero() {
		snapshot.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, snapshot)
	return err
}

// List returns snapshots taken at or after since, newest first
func (r *SnapshotRepositoryImpl) List(ctx context.Context, since time.Time, limit int64) ([]KPISnapshot, error) {
	filter := bson.M{}
	if !since.IsZero() {
		filter["taken_at"] = bson.M{"$gte": since}
	}
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	snapshots := []KPISnapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
