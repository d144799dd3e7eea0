// Package sqlstore implements the PostgreSQL store for the analytical
// outputs: daily sentiment rows, daily price bars, and correlation points.
//
// All three tables are keyed on (ticker, date) and written with upsert
// semantics so the analysis passes are safe to re-run.
package sqlstore
