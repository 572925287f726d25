package store

import (
	"context"
	"errors"
	"time"

	"mfgledger/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a Mongo database. Document ids are strings kept
// in _id; documents written by other clients with ObjectID ids are still addressable
// by their hex form.
type MongoStore struct {
	db           *mongo.Database
	opTimeout    time.Duration
	pollInterval time.Duration
}

func NewMongoStore(db *mongo.Database, pollInterval time.Duration) *MongoStore {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &MongoStore{db: db, opTimeout: 10 * time.Second, pollInterval: pollInterval}
}

func (s *MongoStore) Create(ctx context.Context, collection string, doc Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	id := primitive.NewObjectID().Hex()
	body := bson.M(withoutID(doc))
	body["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, body); err != nil {
		return "", wrap("create", collection, err)
	}
	return id, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, partial Document) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	res, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": bson.M(withoutID(partial))})
	if err != nil {
		return wrap("update", collection, err)
	}
	if res.MatchedCount == 0 {
		return wrap("update", collection, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc Document) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	coll := s.db.Collection(collection)
	body := bson.M(withoutID(doc))
	res, err := coll.ReplaceOne(ctx, idFilter(id), body)
	if err != nil {
		return wrap("set", collection, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	// An upsert only keeps the id from an equality filter; $in would get a fresh ObjectID.
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": id}, body, options.Replace().SetUpsert(true))
	return wrap("set", collection, err)
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	_, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	return wrap("delete", collection, err)
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrap("get", collection, err)
	}
	return toDocument(raw), nil
}

func (s *MongoStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, wrap("getAll", collection, err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, wrap("getAll", collection, err)
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

// Subscribe emits the collection, then re-reads it on every change stream event.
// Change streams need a replica set; on a standalone server it polls instead.
func (s *MongoStore) Subscribe(ctx context.Context, collection string) (<-chan Snapshot, error) {
	out := make(chan Snapshot, 1)
	log := logger.WithCollection(collection)

	go func() {
		defer close(out)

		if !s.emit(ctx, out, collection) {
			return
		}

		stream, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
		if err == nil {
			for stream.Next(ctx) {
				if !s.emit(ctx, out, collection) {
					break
				}
			}
			err = stream.Err()
			_ = stream.Close(context.Background())
		}
		if ctx.Err() != nil {
			return
		}
		log.WithError(err).Warnf("change stream unavailable, polling every %s", s.pollInterval)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.emit(ctx, out, collection) {
					return
				}
			}
		}
	}()
	return out, nil
}

// emit reads the collection and pushes one snapshot. It reports false once ctx is done.
func (s *MongoStore) emit(ctx context.Context, out chan<- Snapshot, collection string) bool {
	docs, err := s.GetAll(ctx, collection)
	snap := Snapshot{Collection: collection, Docs: docs, Err: err}
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func toDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			doc[IDField] = idString(v)
			continue
		}
		doc[k] = plain(v)
	}
	return doc
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return ""
	}
}

// plain converts BSON driver types to ordinary Go values.
func plain(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	case int32:
		return int64(t)
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, x := range t {
			out[k] = plain(x)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = plain(x)
		}
		return out
	default:
		return v
	}
}
