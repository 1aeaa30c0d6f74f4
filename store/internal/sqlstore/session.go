package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/internal/adapters"
)

// session implements store.Tx on either an open transaction or the plain connection pool.
type session struct {
	e     *Engine
	q     adapters.Queryer
	today store.Date
}

func (e *Engine) newSession(q adapters.Queryer) *session {
	return &session{e: e, q: q, today: e.Today()}
}

func (s *session) Today() store.Date {
	return s.today
}

func (s *session) Get(ctx context.Context, dest store.Record, id int64) error {
	kind := dest.Kind()
	if !kind.HasSerialKey() {
		return store.ErrUnknownKind
	}

	found := false

	err := s.Find(ctx, kind, store.ByKey(kind, id), func(scan store.ScanFunc) error {
		found = true
		return dest.ScanRow(scan)
	})
	if err != nil {
		return err
	}

	if !found {
		return store.Violation(store.ErrNotFound, "%s %d not found", kind.Name(), id)
	}

	return nil
}

func (s *session) Find(ctx context.Context, kind store.Kind, filter store.Filter, each func(scan store.ScanFunc) error) error {
	query, args, err := s.e.cfg.Builder.Select(kind, filter)
	if err != nil {
		s.e.logError(ctx, logMsgBuildQueryFailed, err, logAttrKind, kind.Name())
		return err
	}

	rows, err := s.query(ctx, actionSelect, query, args)
	if err != nil {
		return err
	}
	defer s.closeRows(ctx, rows)

	scan := func(dest ...any) error {
		if scanErr := rows.Scan(dest...); scanErr != nil {
			s.e.logError(ctx, logMsgScanRowFailed, scanErr, logAttrKind, kind.Name())
			return errors.Join(store.ErrScanningDBRowFailed, scanErr)
		}

		return nil
	}

	for rows.Next() {
		if err = each(scan); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return s.e.classify(ctx, err, store.ErrQueryingFailed)
	}

	return nil
}

func (s *session) Count(ctx context.Context, kind store.Kind, filter store.Filter) (int64, error) {
	query, args, err := s.e.cfg.Builder.Count(kind, filter)
	if err != nil {
		s.e.logError(ctx, logMsgBuildQueryFailed, err, logAttrKind, kind.Name())
		return 0, err
	}

	var count int64

	if err = s.queryOne(ctx, actionCount, query, args, &count); err != nil {
		return 0, err
	}

	return count, nil
}

func (s *session) Exists(ctx context.Context, kind store.Kind, filter store.Filter) (bool, error) {
	query, args, err := s.e.cfg.Builder.Exists(kind, filter)
	if err != nil {
		s.e.logError(ctx, logMsgBuildQueryFailed, err, logAttrKind, kind.Name())
		return false, err
	}

	rows, err := s.query(ctx, actionExists, query, args)
	if err != nil {
		return false, err
	}
	defer s.closeRows(ctx, rows)

	exists := rows.Next()

	if err = rows.Err(); err != nil {
		return false, s.e.classify(ctx, err, store.ErrQueryingFailed)
	}

	return exists, nil
}

func (s *session) Insert(ctx context.Context, kind store.Kind, fields store.Fields) (int64, error) {
	query, args, err := s.e.cfg.Builder.Insert(kind, fields)
	if err != nil {
		s.e.logError(ctx, logMsgBuildQueryFailed, err, logAttrKind, kind.Name())
		return 0, err
	}

	if !kind.HasSerialKey() {
		_, err = s.exec(ctx, actionInsert, query, args)
		return 0, err
	}

	if s.e.cfg.Builder.UsesReturning() {
		var id int64

		if err = s.queryOne(ctx, actionInsert, query, args, &id); err != nil {
			return 0, err
		}

		return id, nil
	}

	result, err := s.exec(ctx, actionInsert, query, args)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertID()
	if err != nil {
		return 0, errors.Join(store.ErrExecutingStatementFailed, err)
	}

	return id, nil
}

func (s *session) Update(ctx context.Context, kind store.Kind, filter store.Filter, fields store.Fields) (int64, error) {
	query, args, err := s.e.cfg.Builder.Update(kind, filter, fields)
	if err != nil {
		s.e.logError(ctx, logMsgBuildQueryFailed, err, logAttrKind, kind.Name())
		return 0, err
	}

	return s.execAffected(ctx, actionUpdate, query, args)
}

func (s *session) Increment(ctx context.Context, kind store.Kind, column string, delta int64, filter store.Filter) (int64, error) {
	query, args, err := s.e.cfg.Builder.Increment(kind, column, delta, filter)
	if err != nil {
		s.e.logError(ctx, logMsgBuildQueryFailed, err, logAttrKind, kind.Name())
		return 0, err
	}

	return s.execAffected(ctx, actionUpdate, query, args)
}

func (s *session) Delete(ctx context.Context, kind store.Kind, filter store.Filter) (int64, error) {
	query, args, err := s.e.cfg.Builder.Delete(kind, filter)
	if err != nil {
		s.e.logError(ctx, logMsgBuildQueryFailed, err, logAttrKind, kind.Name())
		return 0, err
	}

	return s.execAffected(ctx, actionDelete, query, args)
}

func (s *session) query(ctx context.Context, action, query string, args []any) (adapters.DBRows, error) {
	start := time.Now()
	rows, err := s.q.Query(ctx, query, args...)
	duration := time.Since(start)
	s.e.logStatement(ctx, action, query, duration)
	s.e.recordDuration(ctx, metricStatementDuration, duration, action, statusOf(err))

	if err != nil {
		classified := s.e.classify(ctx, err, store.ErrQueryingFailed)
		s.e.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, query, logAttrErrorKind, store.ErrorKind(classified))

		return nil, classified
	}

	return rows, nil
}

// queryOne reads the single row a statement returns into dest.
func (s *session) queryOne(ctx context.Context, action, query string, args []any, dest ...any) error {
	rows, err := s.query(ctx, action, query, args)
	if err != nil {
		return err
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return s.e.classify(ctx, err, store.ErrQueryingFailed)
		}

		return errors.Join(store.ErrQueryingFailed, errNoRow)
	}

	if err = rows.Scan(dest...); err != nil {
		return s.e.classify(ctx, err, store.ErrScanningDBRowFailed)
	}

	return nil
}

func (s *session) exec(ctx context.Context, action, query string, args []any) (adapters.DBResult, error) {
	start := time.Now()
	result, err := s.q.Exec(ctx, query, args...)
	duration := time.Since(start)
	s.e.logStatement(ctx, action, query, duration)
	s.e.recordDuration(ctx, metricStatementDuration, duration, action, statusOf(err))

	if err != nil {
		classified := s.e.classify(ctx, err, store.ErrExecutingStatementFailed)
		s.e.logError(ctx, logMsgDBExecFailed, err, logAttrQuery, query, logAttrErrorKind, store.ErrorKind(classified))

		return nil, classified
	}

	return result, nil
}

func (s *session) execAffected(ctx context.Context, action, query string, args []any) (int64, error) {
	result, err := s.exec(ctx, action, query, args)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.e.logError(ctx, logMsgRowsAffectedFailed, err)
		return 0, errors.Join(store.ErrGettingRowsAffectedFailed, err)
	}

	return affected, nil
}

// closeRows closes database rows and logs any errors.
func (s *session) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.e.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}
