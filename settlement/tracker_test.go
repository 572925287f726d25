package settlement

import (
	"context"
	"errors"
	"testing"

	"mfgledger/config"
	"mfgledger/models"
	"mfgledger/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlagReader struct {
	mock.Mock
}

func (m *MockFlagReader) Flag(docID string) (models.SettlementStatus, bool) {
	args := m.Called(docID)
	return args.Get(0).(models.SettlementStatus), args.Bool(1)
}

func (m *MockFlagReader) FlagsLoaded() bool {
	return m.Called().Bool(0)
}

func TestDocID(t *testing.T) {
	assert.Equal(t, "status_2024-03_a1", DocID("2024-03", "a1"))
}

func TestStatusDefaultsToUnsettled(t *testing.T) {
	tr := NewTracker(store.NewMemoryStore(), nil)
	s, err := tr.Status(context.Background(), "2024-03", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnsettled, s)
}

func TestStatusForAllIsMixedWithoutLookup(t *testing.T) {
	cache := new(MockFlagReader)
	tr := NewTracker(store.NewMemoryStore(), cache)

	s, err := tr.Status(context.Background(), "2024-03", models.AllAgents)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMixed, s)

	s, err = tr.Status(context.Background(), "2024-03", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusMixed, s)

	cache.AssertNotCalled(t, "Flag", mock.Anything)
}

func TestStatusReadsCacheFirst(t *testing.T) {
	cache := new(MockFlagReader)
	cache.On("Flag", "status_2024-03_a1").Return(models.StatusSettled, true)
	tr := NewTracker(store.NewMemoryStore(), cache)

	s, err := tr.Status(context.Background(), "2024-03", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSettled, s)
	cache.AssertExpectations(t)
}

func TestStatusMissAfterSnapshotSkipsStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, config.MonthlyStatusCollection, "status_2024-03_a1", store.Document{"status": "lunas"}))

	cache := new(MockFlagReader)
	cache.On("Flag", "status_2024-03_a1").Return(models.SettlementStatus(""), false)
	cache.On("FlagsLoaded").Return(true).Once()
	tr := NewTracker(s, cache)

	st, err := tr.Status(ctx, "2024-03", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnsettled, st, "a loaded cache is authoritative")

	cache.On("FlagsLoaded").Return(false)
	st, err = tr.Status(ctx, "2024-03", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSettled, st, "before the first snapshot the store is read")
	cache.AssertExpectations(t)
}

func TestToggleIsAnInvolution(t *testing.T) {
	s := store.NewMemoryStore()
	tr := NewTracker(s, nil)
	ctx := context.Background()

	first, err := tr.Toggle(ctx, models.RoleAdmin, "2024-03", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSettled, first)

	doc, err := s.Get(ctx, config.MonthlyStatusCollection, "status_2024-03_a1")
	require.NoError(t, err)
	assert.Equal(t, "lunas", doc["status"])
	assert.Equal(t, "2024-03", doc["monthKey"])
	assert.Equal(t, "a1", doc["agentId"])
	assert.Contains(t, doc, "updatedAt")

	second, err := tr.Toggle(ctx, models.RoleAdmin, "2024-03", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnsettled, second)

	now, err := tr.Status(ctx, "2024-03", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnsettled, now)

	other, err := tr.Status(ctx, "2024-04", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnsettled, other, "flags are per month")
}

func TestToggleRefusals(t *testing.T) {
	s := store.NewMemoryStore()
	tr := NewTracker(s, nil)
	ctx := context.Background()

	_, err := tr.Toggle(ctx, models.RoleAgent, "2024-03", "a1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = tr.Toggle(ctx, models.RoleAdmin, "2024-03", models.AllAgents)
	assert.ErrorIs(t, err, ErrAllScope)

	_, err = s.Get(ctx, config.MonthlyStatusCollection, DocID("2024-03", models.AllAgents))
	assert.ErrorIs(t, err, store.ErrNotFound, "nothing is written for the all scope")
}

func TestToggleSurfacesStoreFailure(t *testing.T) {
	s := store.NewMemoryStore()
	s.FailWith = errors.New("quota exceeded")
	tr := NewTracker(s, nil)

	_, err := tr.Toggle(context.Background(), models.RoleAdmin, "2024-03", "a1")
	var pe *store.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "set", pe.Op)
}

func TestFlip(t *testing.T) {
	for _, s := range []models.SettlementStatus{models.StatusSettled, models.StatusUnsettled} {
		assert.Equal(t, s, Flip(Flip(s)))
	}
}
