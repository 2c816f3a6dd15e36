package feedback

import (
	"context"
	"errors"

	"campus-incidents/internal/config"
	"campus-incidents/internal/database"
	"campus-incidents/internal/incident"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type FeedbackRepository interface {
	FindByID(ctx context.Context, id string) (bson.Raw, error)
}

type FeedbackRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFeedbackRepository(db *database.MongodbDB, cfg *config.Config) FeedbackRepository {
	return &FeedbackRepositoryImpl{
		Collection: db.DB.Collection(cfg.FeedbackCollection),
	}
}

func (r *FeedbackRepositoryImpl) FindByID(ctx context.Context, id string) (bson.Raw, error) {
	raw, err := r.Collection.FindOne(ctx, bson.M{"_id": bson.M{"$in": incident.IDFilterValues(id)}}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
