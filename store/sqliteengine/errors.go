package sqliteengine

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// classify maps go-sqlite3 errors to store outcome sentinels.
func classify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return nil
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return store.ErrConflict
	case sqlite3.ErrConstraintForeignKey:
		return store.ErrInvalidReference
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return store.ErrInvalidInput
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return store.ErrTransient
	default:
		return nil
	}
}
