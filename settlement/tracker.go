// Package settlement keeps the settled/unsettled flag of each (month, partner) pair.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mfgledger/config"
	"mfgledger/models"
	"mfgledger/store"
)

var (
	ErrForbidden = errors.New("only the admin can change a settlement status")
	ErrAllScope  = errors.New("choose a single partner to change its settlement status")
)

// DocID is the id of the flag document for one month and partner. Existing stored
// flags use this layout.
func DocID(monthKey, agentID string) string {
	return fmt.Sprintf("status_%s_%s", monthKey, agentID)
}

// FlagReader is a cache of flags keyed by DocID. Once FlagsLoaded reports true the
// cache holds the whole collection, and a miss means no flag was ever written.
type FlagReader interface {
	Flag(docID string) (models.SettlementStatus, bool)
	FlagsLoaded() bool
}

type Tracker struct {
	store store.Store
	cache FlagReader
	now   func() time.Time
}

// NewTracker builds a tracker over the store. cache may be nil, in which case every
// read goes to the store.
func NewTracker(s store.Store, cache FlagReader) *Tracker {
	return &Tracker{store: s, cache: cache, now: time.Now}
}

// Status reads the flag of one month and partner. A missing flag means unsettled.
// The "all" scope has no flag of its own and is reported as mixed without a lookup.
func (t *Tracker) Status(ctx context.Context, monthKey, agentID string) (models.SettlementStatus, error) {
	if agentID == models.AllAgents || agentID == "" {
		return models.StatusMixed, nil
	}
	id := DocID(monthKey, agentID)
	if t.cache != nil {
		if s, ok := t.cache.Flag(id); ok {
			return normalize(s), nil
		}
		if t.cache.FlagsLoaded() {
			return models.StatusUnsettled, nil
		}
	}
	doc, err := t.store.Get(ctx, config.MonthlyStatusCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.StatusUnsettled, nil
	}
	if err != nil {
		return "", err
	}
	s, _ := doc["status"].(string)
	return normalize(models.SettlementStatus(s)), nil
}

// Toggle flips the flag of one month and partner and writes it back. It is the only
// way to change a flag, and only the admin may call it for a concrete partner.
func (t *Tracker) Toggle(ctx context.Context, role, monthKey, agentID string) (models.SettlementStatus, error) {
	if role != models.RoleAdmin {
		return "", ErrForbidden
	}
	if agentID == models.AllAgents || agentID == "" {
		return "", ErrAllScope
	}

	// read through the store, the cache may lag behind a toggle made a moment ago
	doc, err := t.store.Get(ctx, config.MonthlyStatusCollection, DocID(monthKey, agentID))
	current := models.StatusUnsettled
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return "", err
	default:
		s, _ := doc["status"].(string)
		current = normalize(models.SettlementStatus(s))
	}

	next := Flip(current)
	err = t.store.Set(ctx, config.MonthlyStatusCollection, DocID(monthKey, agentID), store.Document{
		"monthKey":  monthKey,
		"agentId":   agentID,
		"status":    string(next),
		"updatedAt": t.now(),
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

// Flip is the only transition: settled becomes unsettled and the other way round.
func Flip(s models.SettlementStatus) models.SettlementStatus {
	if s == models.StatusSettled {
		return models.StatusUnsettled
	}
	return models.StatusSettled
}

// anything other than lunas reads as belum
func normalize(s models.SettlementStatus) models.SettlementStatus {
	if s == models.StatusSettled {
		return models.StatusSettled
	}
	return models.StatusUnsettled
}
