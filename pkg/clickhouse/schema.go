package clickhouse

// SchemaStatements returns idempotent DDL for the trade archive. Trades are
// append-only; ReplacingMergeTree collapses redundant deliveries of the same
// (source, trade_id) row on merge.
func SchemaStatements(database string) []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS " + database,
		`CREATE TABLE IF NOT EXISTS ` + database + `.trades (
			source       LowCardinality(String),
			trade_id     String,
			account_id   String,
			instrument   LowCardinality(String),
			side         Enum8('long' = 1, 'short' = 2),
			quantity     Float64,
			ts           DateTime64(3, 'UTC'),
			entry_price  Float64,
			exit_price   Float64,
			stop_loss    Nullable(Float64),
			take_profit  Nullable(Float64),
			order_type   LowCardinality(String),
			closed_at    DateTime64(3, 'UTC'),
			ingested_at  DateTime64(3, 'UTC') DEFAULT now64(3)
		) ENGINE = ReplacingMergeTree(ingested_at)
		PARTITION BY toYYYYMM(ts)
		ORDER BY (account_id, ts, source, trade_id)`,
	}
}
