package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"garagy/internal/db"
)

// MongoStore maps each collection onto a Mongo collection and the document
// id onto _id.
type MongoStore struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// OpenMongo connects to uri and pings the primary.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoStore{Client: client, DB: client.Database(database)}, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var m bson.M
	err := s.DB.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(collection, id)
	}
	if err != nil {
		return nil, remoteIO(err, "get", collection)
	}
	return fromBSON(m, collection)
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc Document) error {
	m := bson.M{}
	for k, v := range doc {
		m[k] = v
	}
	m["_id"] = id
	_, err := s.DB.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return remoteIO(err, "set", collection)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.DB.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return remoteIO(err, "update", collection)
	}
	if res.MatchedCount == 0 {
		return notFound(collection, id)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, collection, field string, value any) ([]Record, error) {
	filter := bson.M{}
	if field != "" {
		filter[field] = value
	}
	cursor, err := s.DB.Collection(collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, remoteIO(err, "find", collection)
	}
	defer cursor.Close(ctx)

	var out []Record
	for cursor.Next(ctx) {
		var m bson.M
		if err := cursor.Decode(&m); err != nil {
			return nil, remoteIO(err, "decode", collection)
		}
		id, _ := m["_id"].(string)
		doc, err := fromBSON(m, collection)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{ID: id, Data: doc})
	}
	if err := cursor.Err(); err != nil {
		return nil, remoteIO(err, "find", collection)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, collection string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.DB.Collection(collection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return remoteIO(err, "delete", collection)
	}
	return nil
}

// EnsureIndexes indexes the garage id of the per-garage history
// collections.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	for _, c := range []string{db.CollectionGateEvents, db.CollectionSnapshots} {
		_, err := s.DB.Collection(c).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "garageId", Value: 1}, {Key: "createdAt", Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", c, err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// fromBSON drops _id and normalises nested bson.M/bson.A values into plain
// maps and slices, matching what the other drivers return.
func fromBSON(m bson.M, collection string) (Document, error) {
	delete(m, "_id")
	var doc Document
	if err := Decode(m, &doc); err != nil {
		return nil, badDocument(err, collection)
	}
	return doc, nil
}
