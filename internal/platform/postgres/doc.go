// Package postgres provides PostgreSQL implementations of the store
// interfaces for users, documents and summaries, plus the embedded goose migrations
// that create their tables.
//
// Connections go through database/sql with the pgx stdlib driver. Stores
// accept a store.DBTX so they can run against a pool or a transaction;
// SummaryStore additionally needs the *sql.DB to open its own transactions.
// Driver errors are translated to store sentinel errors by MapError so that
// callers never see pgx types.
package postgres
