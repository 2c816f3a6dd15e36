package report

import (
	"context"
	"errors"
	"time"

	"campus-incidents/internal/config"
	"campus-incidents/internal/database"
	"campus-incidents/internal/incident"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepository interface {
	// FindByID searches every report collection and returns the owning collection
	FindByID(ctx context.Context, id string) (string, bson.Raw, error)
	// UpdateStatus sets status and updated_at only, returning the previous status
	UpdateStatus(ctx context.Context, id, status string, at time.Time) (string, string, error)
}

type ReportRepositoryImpl struct {
	Collections []*mongo.Collection
}

func NewReportRepository(db *database.MongodbDB, cfg *config.Config) ReportRepository {
	return &ReportRepositoryImpl{
		Collections: []*mongo.Collection{
			db.DB.Collection(cfg.TrafficCollection),
			db.DB.Collection(cfg.SuspiciousCollection),
		},
	}
}

func idFilter(id string) bson.M {
	return bson.M{"_id": bson.M{"$in": incident.IDFilterValues(id)}}
}

func (r *ReportRepositoryImpl) FindByID(ctx context.Context, id string) (string, bson.Raw, error) {
	for _, coll := range r.Collections {
		raw, err := coll.FindOne(ctx, idFilter(id)).Raw()
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return coll.Name(), raw, nil
	}
	return "", nil, ErrReportNotFound
}

func (r *ReportRepositoryImpl) UpdateStatus(ctx context.Context, id, status string, at time.Time) (string, string, error) {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": at,
		},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"status": 1})

	for _, coll := range r.Collections {
		before, err := coll.FindOneAndUpdate(ctx, idFilter(id), update, opts).Raw()
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return "", "", err
		}
		// The write has committed; a non-string old status reads as empty
		return coll.Name(), incident.StringField(before, "status"), nil
	}
	return "", "", ErrReportNotFound
}
