package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// documentCollection is the subset of *mongo.Collection the backend uses.
type documentCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// pinger is satisfied by *mongo.Client.
type pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Mongo is a remote Backend holding one document per key:
//
//	{ _id: <key>, items: [...], updatedAt: <date> }
//
// Payloads are JSON arrays; they are stored as native BSON arrays so the
// collection stays queryable from other tools.
type Mongo struct {
	coll    documentCollection
	ping    pinger
	timeout time.Duration
	now     func() time.Time
}

// NewMongo creates a backend over an existing collection.
func NewMongo(coll documentCollection, ping pinger, timeout time.Duration) *Mongo {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Mongo{coll: coll, ping: ping, timeout: timeout, now: time.Now}
}

// DialMongo connects to uri and returns a backend for database.collection
// along with a function that disconnects the client.
func DialMongo(ctx context.Context, uri, database, collection string, timeout time.Duration) (*Mongo, func(context.Context) error, error) {
	if uri == "" {
		return nil, nil, fmt.Errorf("mongo URI is required")
	}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	coll := client.Database(database).Collection(collection)
	return NewMongo(coll, client, timeout), client.Disconnect, nil
}

func (m *Mongo) Name() string { return "mongo" }

// Available pings the primary within the configured timeout.
func (m *Mongo) Available(ctx context.Context) bool {
	if m.ping == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.ping.Ping(ctx, readpref.Primary()) == nil
}

func (m *Mongo) Load(ctx context.Context, key string) ([]byte, error) {
	var doc bson.M
	err := m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %q: %w", key, err)
	}

	items, ok := doc["items"]
	if !ok || items == nil {
		return nil, ErrNotFound
	}

	ext, err := bson.MarshalExtJSON(bson.M{"items": items}, false, false)
	if err != nil {
		return nil, fmt.Errorf("mongo decode %q: %w", key, err)
	}
	var wrapper struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(ext, &wrapper); err != nil {
		return nil, fmt.Errorf("mongo decode %q: %w", key, err)
	}
	return wrapper.Items, nil
}

func (m *Mongo) Save(ctx context.Context, key string, payload []byte) error {
	wrapped := make([]byte, 0, len(payload)+10)
	wrapped = append(wrapped, `{"items":`...)
	wrapped = append(wrapped, payload...)
	wrapped = append(wrapped, '}')

	var body bson.M
	if err := bson.UnmarshalExtJSON(wrapped, false, &body); err != nil {
		return fmt.Errorf("mongo encode %q: %w", key, err)
	}

	doc := bson.D{
		{Key: "_id", Value: key},
		{Key: "items", Value: body["items"]},
		{Key: "updatedAt", Value: m.now().UTC()},
	}
	_, err := m.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo replace %q: %w", key, err)
	}
	return nil
}
