package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// fakeCollection keeps replaced documents in memory and serves them back
// through real SingleResults so decoding runs the driver's codecs.
type fakeCollection struct {
	mu      sync.Mutex
	docs    map[string]interface{}
	findErr bool
	saveErr error
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{docs: make(map[string]interface{})}
}

func (c *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.findErr {
		return mongo.NewSingleResultFromDocument(nil, nil, nil)
	}
	key := filterKey(filter)
	doc, ok := c.docs[key]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{{Key: "_id", Value: key}}, nil, nil)
	}
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func (c *fakeCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.saveErr != nil {
		return nil, c.saveErr
	}
	c.docs[filterKey(filter)] = replacement
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func filterKey(filter interface{}) string {
	d := filter.(bson.D)
	return d[0].Value.(string)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context, rp *readpref.ReadPref) error { return p.err }

func TestMongo_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	coll := newFakeCollection()
	m := NewMongo(coll, fakePinger{}, time.Second)

	type line struct {
		ID       string  `json:"id"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	list := NewList[line](m, nil)
	want := []line{{ID: "p1", Price: 5.5, Quantity: 2}, {ID: "p2", Price: 10, Quantity: 1}}

	require.NoError(t, list.Save(ctx, "adminProducts", want))
	assert.Equal(t, want, list.Load(ctx, "adminProducts"))
}

func TestMongo_StoresNativeArray(t *testing.T) {
	ctx := context.Background()
	coll := newFakeCollection()
	m := NewMongo(coll, fakePinger{}, time.Second)
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, m.Save(ctx, "adminProducts", []byte(`[{"id":"p1"}]`)))

	doc, ok := coll.docs["adminProducts"].(bson.D)
	require.True(t, ok)
	require.Len(t, doc, 3)
	assert.Equal(t, "_id", doc[0].Key)
	assert.Equal(t, "items", doc[1].Key)
	assert.Equal(t, "updatedAt", doc[2].Key)
	assert.Equal(t, m.now(), doc[2].Value)
}

func TestMongo_MissingItemsIsNotFound(t *testing.T) {
	m := NewMongo(newFakeCollection(), fakePinger{}, time.Second)

	_, err := m.Load(context.Background(), "adminProducts")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongo_FindErrorIsWrapped(t *testing.T) {
	coll := newFakeCollection()
	coll.findErr = true
	m := NewMongo(coll, fakePinger{}, time.Second)

	_, err := m.Load(context.Background(), "adminProducts")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMongo_SaveRejectsNonJSON(t *testing.T) {
	m := NewMongo(newFakeCollection(), fakePinger{}, time.Second)

	err := m.Save(context.Background(), "k", []byte(`not json`))
	assert.Error(t, err)
}

func TestMongo_Availability(t *testing.T) {
	ctx := context.Background()

	assert.True(t, NewMongo(newFakeCollection(), fakePinger{}, time.Second).Available(ctx))
	assert.False(t, NewMongo(newFakeCollection(), fakePinger{err: errors.New("no primary")}, time.Second).Available(ctx))
	assert.False(t, NewMongo(newFakeCollection(), nil, time.Second).Available(ctx))
}

func TestMongo_RemoteWriteFailureSwallowedByFallback(t *testing.T) {
	ctx := context.Background()
	coll := newFakeCollection()
	coll.saveErr = errors.New("not primary")
	local := NewMemory("local")

	f := NewFallback(NewMongo(coll, fakePinger{}, time.Second), local, nil)
	require.NoError(t, f.Save(ctx, "adminProducts", []byte(`[]`)))

	_, inLocal := local.Raw("adminProducts")
	assert.False(t, inLocal)
}

func TestMongo_LoadedPayloadIsJSONArray(t *testing.T) {
	ctx := context.Background()
	m := NewMongo(newFakeCollection(), fakePinger{}, time.Second)
	require.NoError(t, m.Save(ctx, "k", []byte(`[1,2,3]`)))

	raw, err := m.Load(ctx, "k")
	require.NoError(t, err)

	var got []int
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, []int{1, 2, 3}, got)
}
