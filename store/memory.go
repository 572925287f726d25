package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
)

// MemoryStore keeps collections in process memory. It backs tests and the
// STORE_DRIVER=memory development mode.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	subs        map[string][]*memorySub
	seq         atomic.Int64

	// FailWith, when set, makes every write return this error.
	FailWith error
}

type memorySub struct {
	ch   chan Snapshot
	done <-chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		subs:        make(map[string][]*memorySub),
	}
}

func (m *MemoryStore) Subscribe(ctx context.Context, collection string) (<-chan Snapshot, error) {
	sub := &memorySub{ch: make(chan Snapshot, 16), done: ctx.Done()}

	m.mu.Lock()
	m.subs[collection] = append(m.subs[collection], sub)
	sub.ch <- m.snapshotLocked(collection)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		list := m.subs[collection]
		for i, s := range list {
			if s == sub {
				m.subs[collection] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(sub.ch)
	}()
	return sub.ch, nil
}

func (m *MemoryStore) Create(_ context.Context, collection string, doc Document) (string, error) {
	if m.FailWith != nil {
		return "", wrap("create", collection, m.FailWith)
	}
	id := "mem" + strconv.FormatInt(m.seq.Add(1), 10)
	m.mu.Lock()
	m.putLocked(collection, id, withoutID(doc))
	m.notifyLocked(collection)
	m.mu.Unlock()
	return id, nil
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, partial Document) error {
	if m.FailWith != nil {
		return wrap("update", collection, m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.collections[collection][id]
	if !ok {
		return wrap("update", collection, ErrNotFound)
	}
	next := cur.Clone()
	for k, v := range withoutID(partial) {
		next[k] = v
	}
	m.putLocked(collection, id, next)
	m.notifyLocked(collection)
	return nil
}

func (m *MemoryStore) Set(_ context.Context, collection, id string, doc Document) error {
	if m.FailWith != nil {
		return wrap("set", collection, m.FailWith)
	}
	m.mu.Lock()
	m.putLocked(collection, id, withoutID(doc))
	m.notifyLocked(collection)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	if m.FailWith != nil {
		return wrap("delete", collection, m.FailWith)
	}
	m.mu.Lock()
	delete(m.collections[collection], id)
	m.notifyLocked(collection)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return withID(doc, id), nil
}

func (m *MemoryStore) GetAll(_ context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(collection).Docs, nil
}

func (m *MemoryStore) putLocked(collection, id string, doc Document) {
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	m.collections[collection][id] = doc
}

func (m *MemoryStore) snapshotLocked(collection string) Snapshot {
	docs := make([]Document, 0, len(m.collections[collection]))
	for id, doc := range m.collections[collection] {
		docs = append(docs, withID(doc, id))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	return Snapshot{Collection: collection, Docs: docs}
}

// notifyLocked fans the new snapshot out. Slow subscribers lose intermediate
// snapshots, which is fine because every snapshot is the whole collection.
func (m *MemoryStore) notifyLocked(collection string) {
	snap := m.snapshotLocked(collection)
	for _, s := range m.subs[collection] {
		select {
		case <-s.done:
			continue
		default:
		}
		select {
		case s.ch <- snap:
		default:
			// drop the oldest pending snapshot and keep the newest
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- snap:
			default:
			}
		}
	}
}

func withID(doc Document, id string) Document {
	out := doc.Clone()
	out[IDField] = id
	return out
}
