// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx driver. Driver errors are translated to
// store errors by MapError. The schema lives in the embedded migrations
// directory and is applied with goose.
package postgres
