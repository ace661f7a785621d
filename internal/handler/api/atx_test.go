package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
	icache "AtxEngine/internal/service/cache"
	"AtxEngine/internal/usecase"
	"AtxEngine/pkg/util"

	"github.com/labstack/echo/v4"
)

type stubTradeStore struct {
	mu      sync.Mutex
	trades  []*models.Trade
	queries int
}

func (s *stubTradeStore) Store(_ context.Context, t *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, t)
	return nil
}

func (s *stubTradeStore) StoreBatch(_ context.Context, ts []*models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, ts...)
	return nil
}

func (s *stubTradeStore) Query(_ context.Context, accountID string, from, to time.Time, _ []string) ([]*models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	var out []*models.Trade
	for _, t := range s.trades {
		if t.AccountID == accountID && !t.Timestamp.Before(from) && t.Timestamp.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTradeStore) Counts(_ context.Context, accountID string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make(map[time.Time]struct{})
	n := 0
	for _, t := range s.trades {
		if t.AccountID == accountID {
			n++
			days[util.DayStart(t.Timestamp)] = struct{}{}
		}
	}
	return n, len(days), nil
}

func (s *stubTradeStore) Sources(_ context.Context, _ string) ([]string, error) {
	return []string{"mock"}, nil
}

func (s *stubTradeStore) Health(context.Context) error { return nil }
func (s *stubTradeStore) Close() error                 { return nil }

type stubStateStore struct{}

func (stubStateStore) Load(_ context.Context, accountID string) (*models.AccountState, error) {
	return models.NewAccountState(accountID), nil
}
func (stubStateStore) Save(context.Context, *models.AccountState) error { return nil }
func (stubStateStore) Lock(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
func (stubStateStore) Health(context.Context) error { return nil }

func newTestHandler(store *stubTradeStore) *ATXHandler {
	reader := usecase.NewScoreReader(store, stubStateStore{})
	return NewATXHandler(nil, reader, icache.NewTTLCache(), nil)
}

func doGet(fn echo.HandlerFunc, target, accountID string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(accountID)
	_ = fn(c)
	return rec
}

func TestDayRequiresDate(t *testing.T) {
	h := newTestHandler(&stubTradeStore{})
	rec := doGet(h.Day, "/atx/accounts/acc-1/day", "acc-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if int(body["status"].(float64)) != http.StatusBadRequest {
		t.Fatalf("missing date must fail validation, got %v", body["status"])
	}
}

func TestDayWithoutTradesAnswersNullSnapshot(t *testing.T) {
	h := newTestHandler(&stubTradeStore{})
	rec := doGet(h.Day, "/atx/accounts/acc-1/day?date=2026-04-05", "acc-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body models.DayResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ATX != nil {
		t.Fatal("zero-trade day must answer with a null snapshot")
	}
	if body.TradeCount != 0 {
		t.Fatalf("unexpected trade count %d", body.TradeCount)
	}
}

func TestAccountSecondRequestServedFromCache(t *testing.T) {
	store := &stubTradeStore{}
	sl := 1950.0
	ts := time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		_ = store.Store(context.Background(), &models.Trade{
			Source:     "mock",
			TradeID:    ts.Add(time.Duration(i) * time.Minute).Format("150405"),
			AccountID:  "acc-1",
			Instrument: "XAUUSD",
			Side:       models.SideLong,
			Quantity:   1,
			Timestamp:  ts.Add(time.Duration(i) * time.Minute),
			EntryPrice: 2000,
			ExitPrice:  2002,
			StopLoss:   &sl,
			OrderType:  "limit",
			ClosedAt:   ts.Add(time.Duration(i)*time.Minute + 30*time.Minute),
		})
	}
	h := newTestHandler(store)

	target := "/atx/accounts/acc-1/day?date=2026-04-05"
	first := doGet(h.Day, target, "acc-1")
	if first.Code != http.StatusOK {
		t.Fatalf("first request status %d", first.Code)
	}
	queriesAfterFirst := store.queries

	second := doGet(h.Day, target, "acc-1")
	if second.Code != http.StatusOK {
		t.Fatalf("second request status %d", second.Code)
	}
	if store.queries != queriesAfterFirst {
		t.Fatalf("second request must hit the cache, queries went %d -> %d", queriesAfterFirst, store.queries)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached body must match the original response")
	}
}
