package ledger

import (
	"context"
	"sync"
	"time"

	"mfgledger/config"
	"mfgledger/logger"
	"mfgledger/models"
	"mfgledger/store"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Repository is the in-memory view of the store the billing views are computed
// from. Every snapshot replaces the collection it belongs to.
type Repository struct {
	store store.Store

	mu         sync.RWMutex
	orders     []models.Order
	agents     []models.Agent
	statuses   map[string]models.SettlementStatus
	company    models.Company
	agentsSeen bool
	flagsSeen  bool

	seedSample bool
	seeded     bool

	// OnDrop is called for every order dropped from the ledger.
	OnDrop func(id string, err error)
}

func NewRepository(s store.Store, seedSample bool) *Repository {
	return &Repository{
		store:      s,
		statuses:   make(map[string]models.SettlementStatus),
		company:    models.DefaultCompany(),
		seedSample: seedSample,
	}
}

var watched = []string{
	config.AgentCollection,
	config.OrderCollection,
	config.MonthlyStatusCollection,
	config.CompanyCollection,
}

// Run subscribes to every collection the ledger needs and applies snapshots until
// ctx is done.
func (r *Repository) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range watched {
		ch, err := r.store.Subscribe(ctx, name)
		if err != nil {
			return err
		}
		g.Go(func() error {
			for snap := range ch {
				r.Apply(ctx, snap)
			}
			return nil
		})
	}
	return g.Wait()
}

// Apply replaces the collection the snapshot belongs to. A snapshot carrying an
// error leaves the previous state in place.
func (r *Repository) Apply(ctx context.Context, snap store.Snapshot) {
	log := logger.WithCollection(snap.Collection)
	if snap.Err != nil {
		log.WithError(snap.Err).Error("snapshot error, keeping previous state")
		return
	}

	switch snap.Collection {
	case config.OrderCollection:
		orders := BuildLedger(snap.Docs, func(id string, err error) {
			log.WithFields(logrus.Fields{"order_id": id}).WithError(err).Warn("dropping malformed order")
			if r.OnDrop != nil {
				r.OnDrop(id, err)
			}
		})
		for _, o := range orders {
			if err := CheckTotal(o); err != nil {
				log.WithFields(logrus.Fields{"order_id": o.ID}).WithError(err).Warn("stored totalPayment does not add up")
			}
		}
		r.mu.Lock()
		r.orders = orders
		r.mu.Unlock()

	case config.AgentCollection:
		agents := NormalizeAgents(snap.Docs)
		for code, ids := range DuplicateCodes(agents) {
			log.WithFields(logrus.Fields{"code": code, "agent_ids": ids}).Warn("agent code used more than once, login picks the first")
		}
		r.mu.Lock()
		first := !r.agentsSeen
		r.agents = agents
		r.agentsSeen = true
		seed := first && len(agents) == 0 && r.seedSample && !r.seeded
		if seed {
			r.seeded = true
		}
		r.mu.Unlock()
		if seed {
			r.seedSampleAgent(ctx)
		}

	case config.MonthlyStatusCollection:
		statuses := make(map[string]models.SettlementStatus, len(snap.Docs))
		for _, d := range snap.Docs {
			statuses[d.ID()] = models.SettlementStatus(str(d["status"]))
		}
		r.mu.Lock()
		r.statuses = statuses
		r.flagsSeen = true
		r.mu.Unlock()

	case config.CompanyCollection:
		for _, d := range snap.Docs {
			if d.ID() != config.CompanyDocID {
				continue
			}
			c := CompanyFromDocument(d)
			r.mu.Lock()
			r.company = c
			r.mu.Unlock()
		}
	}
}

func (r *Repository) seedSampleAgent(ctx context.Context) {
	_, err := r.store.Create(ctx, config.AgentCollection, store.Document{
		"name":      "Mitra A (Contoh)",
		"code":      "A001",
		"createdAt": time.Now(),
	})
	if err != nil {
		logger.WithCollection(config.AgentCollection).WithError(err).Warn("seeding sample agent failed")
	}
}

// Orders returns the ledger, newest first.
func (r *Repository) Orders() []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Order(nil), r.orders...)
}

func (r *Repository) Agents() []models.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Agent(nil), r.agents...)
}

func (r *Repository) Agent(id string) (models.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.agents {
		if a.ID == id {
			return a, true
		}
	}
	return models.Agent{}, false
}

func (r *Repository) Order(id string) (models.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// Flag returns the cached settlement flag stored under docID.
func (r *Repository) Flag(docID string) (models.SettlementStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.statuses[docID]
	return s, ok
}

// FlagsLoaded reports whether a settlement status snapshot has been applied.
func (r *Repository) FlagsLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flagsSeen
}

func (r *Repository) Company() models.Company {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.company
}

// Ready reports whether the first agents snapshot has arrived.
func (r *Repository) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agentsSeen
}
