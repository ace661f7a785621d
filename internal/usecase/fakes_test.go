package usecase

import (
	"context"
	"sync"
	"time"

	"AtxEngine/internal/domain/models"
	"AtxEngine/pkg/util"
)

// In-memory doubles for the store, state, publisher, queue, and metrics.

type memTradeStore struct {
	mu     sync.Mutex
	trades []*models.Trade
}

func (m *memTradeStore) Store(_ context.Context, t *models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, t)
	return nil
}

func (m *memTradeStore) StoreBatch(_ context.Context, ts []*models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, ts...)
	return nil
}

func (m *memTradeStore) Query(_ context.Context, accountID string, from, to time.Time, sources []string) ([]*models.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Trade
	for _, t := range m.trades {
		if t.AccountID != accountID || t.Timestamp.Before(from) || !t.Timestamp.Before(to) {
			continue
		}
		if len(sources) > 0 && !contains(sources, t.Source) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTradeStore) Counts(_ context.Context, accountID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	days := make(map[time.Time]struct{})
	n := 0
	for _, t := range m.trades {
		if t.AccountID != accountID {
			continue
		}
		n++
		days[util.DayStart(t.Timestamp)] = struct{}{}
	}
	return n, len(days), nil
}

func (m *memTradeStore) Sources(_ context.Context, accountID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, t := range m.trades {
		if t.AccountID != accountID {
			continue
		}
		if _, ok := seen[t.Source]; !ok {
			seen[t.Source] = struct{}{}
			out = append(out, t.Source)
		}
	}
	return out, nil
}

func (m *memTradeStore) Health(context.Context) error { return nil }
func (m *memTradeStore) Close() error                 { return nil }

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

type memStateStore struct {
	mu     sync.Mutex
	states map[string]*models.AccountState
	locked map[string]bool
	saves  int
}

func newMemStateStore() *memStateStore {
	return &memStateStore{
		states: make(map[string]*models.AccountState),
		locked: make(map[string]bool),
	}
}

func (m *memStateStore) Load(_ context.Context, accountID string) (*models.AccountState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[accountID]; ok {
		cp := *st
		cp.Epochs = append([]models.Epoch(nil), st.Epochs...)
		return &cp, nil
	}
	return models.NewAccountState(accountID), nil
}

func (m *memStateStore) Save(_ context.Context, st *models.AccountState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	cp.Epochs = append([]models.Epoch(nil), st.Epochs...)
	m.states[st.AccountID] = &cp
	m.saves++
	return nil
}

func (m *memStateStore) Lock(_ context.Context, accountID string, _ time.Duration) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[accountID] {
		return nil, false, nil
	}
	m.locked[accountID] = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.locked[accountID] = false
	}, true, nil
}

func (m *memStateStore) Health(context.Context) error { return nil }

type memPublisher struct {
	mu     sync.Mutex
	events []models.EpochEvent
}

func (m *memPublisher) Publish(_ context.Context, ev *models.EpochEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *ev)
	return nil
}

func (m *memPublisher) Close() error { return nil }

type memQueue struct {
	mu       sync.Mutex
	payloads []interface{}
}

func (m *memQueue) PublishMessage(_ context.Context, _ string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordTradeIngested(string)    {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordEpochTransition(string)  {}
func (nopMetrics) RecordLatency(string, float64) {}
