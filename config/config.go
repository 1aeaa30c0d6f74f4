package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Driver selects the store engine and, for PostgreSQL, the client library.
type Driver string

const (
	DriverPGX    Driver = "pgx"
	DriverSQLDB  Driver = "sqldb"
	DriverSQLX   Driver = "sqlx"
	DriverSQLite Driver = "sqlite"
)

// Environment variable names.
const (
	EnvDriver           = "LIBRARY_DB_DRIVER"
	EnvDSN              = "LIBRARY_DB_DSN"
	EnvReplicaDSN       = "LIBRARY_DB_REPLICA_DSN"
	EnvMaxConns         = "LIBRARY_DB_MAX_CONNS"
	EnvMinConns         = "LIBRARY_DB_MIN_CONNS"
	EnvLockTimeout      = "LIBRARY_LOCK_TIMEOUT"
	EnvOperationTimeout = "LIBRARY_OPERATION_TIMEOUT"
	EnvRetryMaxAttempts = "LIBRARY_RETRY_MAX_ATTEMPTS"
	EnvRetryBaseDelay   = "LIBRARY_RETRY_BASE_DELAY"
	EnvHTTPAddr         = "LIBRARY_HTTP_ADDR"
	EnvLogLevel         = "LIBRARY_LOG_LEVEL"
	EnvOTelEndpoint     = "LIBRARY_OTEL_ENDPOINT"
	EnvServiceName      = "LIBRARY_SERVICE_NAME"

	// Fallbacks understood for compatibility with plain deployments.
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
	EnvHost       = "HOST"
	EnvPort       = "PORT"
)

const (
	defaultDriver           = DriverPGX
	defaultDBHost           = "localhost"
	defaultDBPort           = "5432"
	defaultDBUser           = "postgres"
	defaultDBName           = "library"
	defaultMaxConns         = 20
	defaultMinConns         = 2
	defaultLockTimeout      = 5 * time.Second
	defaultOperationTimeout = 10 * time.Second
	defaultRetryMaxAttempts = 6
	defaultRetryBaseDelay   = 10 * time.Millisecond
	defaultHost             = "0.0.0.0"
	defaultPort             = "8000"
	defaultLogLevel         = "info"
	defaultServiceName      = "library-lending"
	defaultSQLiteDSN        = "library.db"
)

var (
	// ErrUnknownDriver is returned for a LIBRARY_DB_DRIVER value that names no engine.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrInvalidValue is returned when an environment variable cannot be parsed.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config is the complete runtime configuration.
type Config struct {
	Driver     Driver
	DSN        string
	ReplicaDSN string
	MaxConns   int
	MinConns   int

	LockTimeout      time.Duration
	OperationTimeout time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration

	HTTPAddr     string
	LogLevel     string
	OTelEndpoint string
	ServiceName  string
}

// Load reads a .env file (if one exists) and then the environment.
func Load(envFiles ...string) (Config, error) {
	// a missing .env file is normal outside development
	_ = godotenv.Load(envFiles...)

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function, typically os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}

		return fallback
	}

	var errs []error

	cfg := Config{
		Driver:       Driver(get(EnvDriver, string(defaultDriver))),
		ReplicaDSN:   get(EnvReplicaDSN, ""),
		HTTPAddr:     get(EnvHTTPAddr, get(EnvHost, defaultHost)+":"+get(EnvPort, defaultPort)),
		LogLevel:     get(EnvLogLevel, defaultLogLevel),
		OTelEndpoint: get(EnvOTelEndpoint, ""),
		ServiceName:  get(EnvServiceName, defaultServiceName),
	}

	switch cfg.Driver {
	case DriverPGX, DriverSQLDB, DriverSQLX:
		cfg.DSN = get(EnvDSN, "")
		if cfg.DSN == "" {
			cfg.DSN = postgresDSN(
				get(EnvDBUser, defaultDBUser),
				get(EnvDBPassword, ""),
				get(EnvDBHost, defaultDBHost),
				get(EnvDBPort, defaultDBPort),
				get(EnvDBName, defaultDBName),
			)
		}
	case DriverSQLite:
		cfg.DSN = get(EnvDSN, defaultSQLiteDSN)
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver))
	}

	cfg.MaxConns = parseInt(get, EnvMaxConns, defaultMaxConns, &errs)
	cfg.MinConns = parseInt(get, EnvMinConns, defaultMinConns, &errs)
	cfg.RetryMaxAttempts = parseInt(get, EnvRetryMaxAttempts, defaultRetryMaxAttempts, &errs)
	cfg.LockTimeout = parseDuration(get, EnvLockTimeout, defaultLockTimeout, &errs)
	cfg.OperationTimeout = parseDuration(get, EnvOperationTimeout, defaultOperationTimeout, &errs)
	cfg.RetryBaseDelay = parseDuration(get, EnvRetryBaseDelay, defaultRetryBaseDelay, &errs)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func postgresDSN(user, password, host, port, name string) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     name,
		RawQuery: "sslmode=disable",
	}

	if password == "" {
		dsn.User = url.User(user)
	}

	return dsn.String()
}

func parseInt(get func(string, string) string, key string, fallback int, errs *[]error) int {
	raw := get(key, "")
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, raw))
		return fallback
	}

	return v
}

func parseDuration(get func(string, string) string, key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := get(key, "")
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, raw))
		return fallback
	}

	return v
}
