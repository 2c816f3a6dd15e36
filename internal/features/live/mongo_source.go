package live

import (
	"context"
	"errors"
	"time"

	"campus-incidents/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSource serves snapshots from change streams. Every change event
// triggers a full re-read of the ordered result set.
type MongoSource struct {
	db *mongo.Database
}

func NewMongoSource(mongodb *database.MongodbDB) Source {
	return &MongoSource{db: mongodb.DB}
}

func (s *MongoSource) Listen(ctx context.Context, q Query) (Stream, error) {
	coll := s.db.Collection(q.Collection)

	// Open the change stream before the initial read so no change is missed
	cs, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}
	return &mongoStream{coll: coll, cs: cs, query: q}, nil
}

type mongoStream struct {
	coll   *mongo.Collection
	cs     *mongo.ChangeStream
	query  Query
	primed bool
}

func (s *mongoStream) Next(ctx context.Context) (Snapshot, error) {
	if !s.primed {
		s.primed = true
		return s.load(ctx)
	}

	if !s.cs.Next(ctx) {
		if err := s.cs.Err(); err != nil {
			return Snapshot{}, err
		}
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{}, errors.New("change stream closed")
	}
	// Coalesce a burst of events into one snapshot
	for s.cs.TryNext(ctx) {
	}
	if err := s.cs.Err(); err != nil {
		return Snapshot{}, err
	}
	return s.load(ctx)
}

func (s *mongoStream) load(ctx context.Context) (Snapshot, error) {
	filter := s.query.Filter
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if s.query.OrderBy != "" {
		dir := 1
		if s.query.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: s.query.OrderBy, Value: dir}, {Key: "_id", Value: dir}})
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return Snapshot{}, err
	}
	defer cursor.Close(ctx)

	docs := make([]bson.Raw, 0)
	for cursor.Next(ctx) {
		doc := make(bson.Raw, len(cursor.Current))
		copy(doc, cursor.Current)
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Documents: docs, ReadAt: time.Now()}, nil
}

func (s *mongoStream) Close(ctx context.Context) error {
	return s.cs.Close(ctx)
}
