// Package postgrestest runs tests against a real PostgreSQL started with testcontainers.
//
// The package is only compiled with the integration build tag. ADAPTER_TYPE selects the
// client library behind the store: pgx (default), sqldb or sqlx.
//
//	go test -tags integration ./...
//	ADAPTER_TYPE=sqlx go test -tags integration ./...
package postgrestest
