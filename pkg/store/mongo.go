package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mhuels/gridpack/pkg/dashboard"
)

const (
	defaultMongoDatabase = "gridpack"
	mongoCollection      = "dashboards"
)

// MongoStore persists dashboards in a MongoDB collection.
// Documents are keyed on the dashboard ID via the _id field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB at uri and verifies the
// connection with a ping. If database is empty, "gridpack" is used.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	var d dashboard.Dashboard
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query dashboard %s: %w", id, err)
	}
	return &d, nil
}

func (s *MongoStore) Put(ctx context.Context, d *dashboard.Dashboard) error {
	if d.ID == "" {
		return fmt.Errorf("dashboard id is empty")
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store dashboard %s: %w", d.ID, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*dashboard.Dashboard, error) {
	sortOpt := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, sortOpt)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	defer cur.Close(ctx)

	var out []*dashboard.Dashboard
	for cur.Next(ctx) {
		var d dashboard.Dashboard
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode dashboard document: %w", err)
		}
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete dashboard %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
