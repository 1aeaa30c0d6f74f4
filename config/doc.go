// Package config loads the runtime configuration of the library service and builds the
// infrastructure it needs: database pools for the different PostgreSQL drivers (pgx.Pool, sql.DB,
// sqlx.DB) or a SQLite file, the OpenTelemetry providers, and the process logger.
//
// Configuration comes from the environment. A .env file in the working directory is loaded first
// if present; variables already set in the environment win.
package config
