package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"AtxEngine/internal/domain/models"
	domrepo "AtxEngine/internal/domain/repository"
	pkgch "AtxEngine/pkg/clickhouse"
	applogger "AtxEngine/pkg/logger"
)

// CHTradeStore implements TradeStore backed by ClickHouse.
type CHTradeStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHTradeStore(ch *pkgch.Client, database string) domrepo.TradeStore {
	return &CHTradeStore{db: ch.DB(), table: database + ".trades"}
}

// SetLogger injects a structured logger.
func (s *CHTradeStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHTradeStore) Store(ctx context.Context, t *models.Trade) error {
	return s.StoreBatch(ctx, []*models.Trade{t})
}

func (s *CHTradeStore) StoreBatch(ctx context.Context, trades []*models.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	// Chunk size tuned to 2000 rows per batch.
	const chunkSize = 2000
	for start := 0; start < len(trades); start += chunkSize {
		end := start + chunkSize
		if end > len(trades) {
			end = len(trades)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*13)
		for _, t := range trades[start:end] {
			if t == nil || t.AccountID == "" || t.Timestamp.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				t.Source,
				t.TradeID,
				t.AccountID,
				t.Instrument,
				string(t.Side),
				t.Quantity,
				t.Timestamp.UTC(),
				t.EntryPrice,
				t.ExitPrice,
				t.StopLoss,
				t.TakeProfit,
				t.OrderType,
				t.ClosedAt.UTC(),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (source, trade_id, account_id, instrument, side, quantity, ts, entry_price, exit_price, stop_loss, take_profit, order_type, closed_at) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_batch error",
					applogger.Int("rows", len(values)),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store trades: %w", err)
		}
	}
	return nil
}

func (s *CHTradeStore) Query(ctx context.Context, accountID string, from, to time.Time, sources []string) ([]*models.Trade, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT source, trade_id, account_id, instrument, side, quantity, ts,
               entry_price, exit_price, stop_loss, take_profit, order_type, closed_at
        FROM %s FINAL
        WHERE account_id = ? AND ts >= ? AND ts < ?`, s.table)
	args := []interface{}{accountID, from.UTC(), to.UTC()}
	if len(sources) > 0 {
		q += " AND source IN (" + placeholders(len(sources)) + ")"
		for _, src := range sources {
			args = append(args, src)
		}
	}
	q += " ORDER BY ts ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse query_trades error",
				applogger.String("account", accountID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Trade, 0, 256)
	for rows.Next() {
		var t models.Trade
		var side string
		var ts, closedAt time.Time
		if err := rows.Scan(&t.Source, &t.TradeID, &t.AccountID, &t.Instrument, &side, &t.Quantity,
			&ts, &t.EntryPrice, &t.ExitPrice, &t.StopLoss, &t.TakeProfit, &t.OrderType, &closedAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = models.Side(side)
		t.Timestamp = ts.UTC()
		t.ClosedAt = closedAt.UTC()
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse query_trades ok",
			applogger.String("account", accountID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHTradeStore) Counts(ctx context.Context, accountID string) (int, int, error) {
	q := fmt.Sprintf(
		"SELECT count(), uniqExact(toDate(ts)) FROM %s FINAL WHERE account_id = ?", s.table)
	var trades, days uint64
	if err := s.db.QueryRowContext(ctx, q, accountID).Scan(&trades, &days); err != nil {
		return 0, 0, fmt.Errorf("count trades: %w", err)
	}
	return int(trades), int(days), nil
}

func (s *CHTradeStore) Sources(ctx context.Context, accountID string) ([]string, error) {
	q := fmt.Sprintf(
		"SELECT DISTINCT source FROM %s WHERE account_id = ? ORDER BY source", s.table)
	rows, err := s.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

func (s *CHTradeStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHTradeStore) Close() error {
	return nil // Managed by pkg
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
