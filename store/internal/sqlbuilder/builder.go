// Package sqlbuilder turns store filters and field sets into parameterized SQL using goqu.
package sqlbuilder

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-lending-go/store"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// ErrNoFields is returned when an insert or update has nothing to write.
var ErrNoFields = errors.New("no fields to write")

// Builder builds statements for one SQL dialect.
type Builder struct {
	dialect   goqu.DialectWrapper
	rowLocks  bool
	returning bool
}

// New returns a Builder for the given goqu dialect name.
// Row locks and RETURNING are only emitted for Postgres; SQLite serializes writers on its own
// and reports identifiers through LastInsertId.
func New(dialect string) Builder {
	return Builder{
		dialect:   goqu.Dialect(dialect),
		rowLocks:  dialect == DialectPostgres,
		returning: dialect == DialectPostgres,
	}
}

// UsesReturning reports whether Insert statements return the generated key as a result row.
func (b Builder) UsesReturning() bool {
	return b.returning
}

// Select builds a SELECT of all columns of kind, ordered by its natural order.
func (b Builder) Select(kind store.Kind, filter store.Filter) (string, []any, error) {
	if !kind.Valid() {
		return "", nil, store.ErrUnknownKind
	}

	cols := make([]any, 0, len(kind.Columns()))
	for _, col := range kind.Columns() {
		cols = append(cols, goqu.C(col))
	}

	order := make([]exp.OrderedExpression, 0, len(kind.OrderBy()))
	for _, col := range kind.OrderBy() {
		order = append(order, goqu.I(col).Asc())
	}

	stmt := b.dialect.From(kind.Table()).
		Prepared(true).
		Select(cols...).
		Where(whereExpressions(filter)...).
		Order(order...)

	if filter.Windowed() {
		stmt = stmt.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.ForUpdate() && b.rowLocks {
		stmt = stmt.ForUpdate(exp.Wait)
	}

	return finalize(stmt.ToSQL())
}

// Count builds a SELECT COUNT(*) over the matching rows. The window of the filter is ignored.
func (b Builder) Count(kind store.Kind, filter store.Filter) (string, []any, error) {
	if !kind.Valid() {
		return "", nil, store.ErrUnknownKind
	}

	stmt := b.dialect.From(kind.Table()).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(whereExpressions(filter)...)

	return finalize(stmt.ToSQL())
}

// Exists builds a query that returns at most one row when any row matches.
func (b Builder) Exists(kind store.Kind, filter store.Filter) (string, []any, error) {
	if !kind.Valid() {
		return "", nil, store.ErrUnknownKind
	}

	stmt := b.dialect.From(kind.Table()).
		Prepared(true).
		Select(goqu.L("1")).
		Where(whereExpressions(filter)...).
		Limit(1)

	return finalize(stmt.ToSQL())
}

// Insert builds an INSERT of one row. For kinds with a serial key on Postgres the key is returned.
func (b Builder) Insert(kind store.Kind, fields store.Fields) (string, []any, error) {
	if !kind.Valid() {
		return "", nil, store.ErrUnknownKind
	}

	if len(fields) == 0 {
		return "", nil, errors.Join(store.ErrBuildingQueryFailed, ErrNoFields)
	}

	stmt := b.dialect.Insert(kind.Table()).
		Prepared(true).
		Rows(goqu.Record(fields))

	if b.returning && kind.HasSerialKey() {
		stmt = stmt.Returning(goqu.C(kind.Key()))
	}

	return finalize(stmt.ToSQL())
}

// Update builds an UPDATE that overwrites fields on the matching rows.
func (b Builder) Update(kind store.Kind, filter store.Filter, fields store.Fields) (string, []any, error) {
	if !kind.Valid() {
		return "", nil, store.ErrUnknownKind
	}

	if len(fields) == 0 {
		return "", nil, errors.Join(store.ErrBuildingQueryFailed, ErrNoFields)
	}

	stmt := b.dialect.Update(kind.Table()).
		Prepared(true).
		Set(goqu.Record(fields)).
		Where(whereExpressions(filter)...)

	return finalize(stmt.ToSQL())
}

// Increment builds "UPDATE ... SET column = column + delta" for the matching rows.
func (b Builder) Increment(kind store.Kind, column string, delta int64, filter store.Filter) (string, []any, error) {
	if !kind.Valid() {
		return "", nil, store.ErrUnknownKind
	}

	stmt := b.dialect.Update(kind.Table()).
		Prepared(true).
		Set(goqu.Record{column: goqu.L("? + ?", goqu.C(column), delta)}).
		Where(whereExpressions(filter)...)

	return finalize(stmt.ToSQL())
}

// Delete builds a DELETE of the matching rows.
func (b Builder) Delete(kind store.Kind, filter store.Filter) (string, []any, error) {
	if !kind.Valid() {
		return "", nil, store.ErrUnknownKind
	}

	stmt := b.dialect.Delete(kind.Table()).
		Prepared(true).
		Where(whereExpressions(filter)...)

	return finalize(stmt.ToSQL())
}

func whereExpressions(filter store.Filter) []exp.Expression {
	expressions := make([]exp.Expression, 0, len(filter.Conditions()))

	for _, condition := range filter.Conditions() {
		col := goqu.C(condition.Column())

		switch condition.Operator() {
		case store.OpEq:
			expressions = append(expressions, col.Eq(condition.Value()))
		case store.OpNotEq:
			expressions = append(expressions, col.Neq(condition.Value()))
		case store.OpGt:
			expressions = append(expressions, col.Gt(condition.Value()))
		case store.OpIsNull:
			expressions = append(expressions, col.IsNull())
		case store.OpIsNotNull:
			expressions = append(expressions, col.IsNotNull())
		}
	}

	return expressions
}

func finalize(query string, args []any, err error) (string, []any, error) {
	if err != nil {
		return "", nil, errors.Join(store.ErrBuildingQueryFailed, err)
	}

	return query, args, nil
}
