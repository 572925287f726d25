// Package store is the document store the ledger reads from and writes to.
// Documents are plain JSON-like maps addressed by collection name and id.
package store

import (
	"context"
	"errors"
	"fmt"
)

// IDField is the key under which a document's store id is exposed.
const IDField = "id"

var ErrNotFound = errors.New("document not found")

// Document is one stored record. Values are plain Go values
// (string, float64, int64, bool, time.Time, map, slice).
type Document map[string]interface{}

func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// Clone returns a shallow copy, so callers can add or drop keys safely.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Snapshot is one emission of a subscription: the whole collection as it is now,
// or the error that interrupted the subscription.
type Snapshot struct {
	Collection string
	Docs       []Document
	Err        error
}

// Store is the set of operations the ledger needs from the persistence service.
type Store interface {
	// Subscribe emits the full collection once immediately and again after every change.
	// The channel is closed when ctx is done.
	Subscribe(ctx context.Context, collection string) (<-chan Snapshot, error)
	Create(ctx context.Context, collection string, doc Document) (string, error)
	Update(ctx context.Context, collection, id string, partial Document) error
	// Set is an upsert that fully replaces the document.
	Set(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) (Document, error)
	GetAll(ctx context.Context, collection string) ([]Document, error)
}

// PersistenceError wraps any rejection coming from the store.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Collection: collection, Err: err}
}

// withoutID drops the id key; ids live in the store's own key, not in the body.
func withoutID(doc Document) Document {
	out := doc.Clone()
	delete(out, IDField)
	return out
}
