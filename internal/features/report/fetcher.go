package report

import (
	"context"
	"errors"

	"campus-incidents/internal/database"
	"campus-incidents/internal/incident"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RefFetcher loads referenced documents for the resolver
type RefFetcher struct {
	db *mongo.Database
}

func NewRefFetcher(mongodb *database.MongodbDB) incident.DocumentFetcher {
	return &RefFetcher{db: mongodb.DB}
}

func (f *RefFetcher) FetchRef(ctx context.Context, ref incident.DocRef) (bson.Raw, error) {
	if ref.Collection == "" {
		return nil, incident.ErrDocumentNotFound
	}
	raw, err := f.db.Collection(ref.Collection).FindOne(ctx, bson.M{"_id": ref.ID}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, incident.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
