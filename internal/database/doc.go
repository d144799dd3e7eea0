// Package database manages the PostgreSQL connection pool for the
// relational store (daily sentiment, prices, correlation rows).
package database
