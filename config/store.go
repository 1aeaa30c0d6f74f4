package config

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/store/sqliteengine"
)

// Store is what the service needs from an opened store engine.
type Store interface {
	InTx(ctx context.Context, fn store.TxFunc) error
	Read(ctx context.Context, fn store.ReadFunc) error
	Ping(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
}

// Instrumentation is handed to the store engine. Nil members are left out.
type Instrumentation struct {
	Logger           store.ContextualLogger
	MetricsCollector store.MetricsCollector
	TracingCollector store.TracingCollector
}

// OpenStore opens the store engine selected by cfg.Driver. The returned function releases
// every connection the store holds.
func OpenStore(ctx context.Context, cfg Config, inst Instrumentation) (Store, func(), error) {
	switch cfg.Driver {
	case DriverSQLite:
		return openSQLite(cfg, inst)
	case DriverPGX:
		return openPGX(ctx, cfg, inst)
	case DriverSQLDB:
		db, err := NewPostgresSQLDB(ctx, cfg, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		s, err := postgresengine.NewStoreFromSQLDB(db, postgresOptions(cfg, inst)...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return s, func() { _ = db.Close() }, nil
	case DriverSQLX:
		db, err := NewPostgresSQLX(ctx, cfg, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		s, err := postgresengine.NewStoreFromSQLX(db, postgresOptions(cfg, inst)...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return s, func() { _ = db.Close() }, nil
	default:
		return nil, nil, errors.Join(ErrUnknownDriver, errors.New(string(cfg.Driver)))
	}
}

func openPGX(ctx context.Context, cfg Config, inst Instrumentation) (Store, func(), error) {
	primary, err := NewPGXPool(ctx, cfg, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	if cfg.ReplicaDSN == "" {
		s, err := postgresengine.NewStoreFromPGXPool(primary, postgresOptions(cfg, inst)...)
		if err != nil {
			primary.Close()
			return nil, nil, err
		}

		return s, primary.Close, nil
	}

	replica, err := NewPGXPool(ctx, cfg, cfg.ReplicaDSN)
	if err != nil {
		primary.Close()
		return nil, nil, err
	}

	closeAll := func() {
		replica.Close()
		primary.Close()
	}

	s, err := postgresengine.NewStoreFromPGXPoolWithReplica(primary, replica, postgresOptions(cfg, inst)...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return s, closeAll, nil
}

func openSQLite(cfg Config, inst Instrumentation) (Store, func(), error) {
	options := []sqliteengine.Option{sqliteengine.WithBusyTimeout(cfg.LockTimeout)}

	if inst.Logger != nil {
		options = append(options, sqliteengine.WithContextualLogger(inst.Logger))
	}

	if inst.MetricsCollector != nil {
		options = append(options, sqliteengine.WithMetrics(inst.MetricsCollector))
	}

	if inst.TracingCollector != nil {
		options = append(options, sqliteengine.WithTracing(inst.TracingCollector))
	}

	s, err := sqliteengine.Open(cfg.DSN, options...)
	if err != nil {
		return nil, nil, err
	}

	return s, func() { _ = s.Close() }, nil
}

func postgresOptions(cfg Config, inst Instrumentation) []postgresengine.Option {
	options := []postgresengine.Option{postgresengine.WithLockTimeout(cfg.LockTimeout)}

	if inst.Logger != nil {
		options = append(options, postgresengine.WithContextualLogger(inst.Logger))
	}

	if inst.MetricsCollector != nil {
		options = append(options, postgresengine.WithMetrics(inst.MetricsCollector))
	}

	if inst.TracingCollector != nil {
		options = append(options, postgresengine.WithTracing(inst.TracingCollector))
	}

	return options
}
