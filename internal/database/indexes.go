package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type IndexModel = mongo.IndexModel

// IndexSpec names the indexes one collection needs
type IndexSpec struct {
	Collection string
	Models     []IndexModel
}

// EnsureIndexes creates missing indexes; existing ones are left untouched
func (m *MongodbDB) EnsureIndexes(ctx context.Context, specs []IndexSpec) error {
	for _, spec := range specs {
		if len(spec.Models) == 0 {
			continue
		}
		if _, err := m.DB.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", spec.Collection, err)
		}
	}
	return nil
}

// Descending builds a single-field descending index
func Descending(field string) IndexModel {
	return IndexModel{Keys: bson.D{{Key: field, Value: -1}}}
}

// Ascending builds a single-field ascending index
func Ascending(field string) IndexModel {
	return IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
}
