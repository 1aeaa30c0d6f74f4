// Package sqlitetest opens throwaway SQLite stores for tests.
package sqlitetest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/sqliteengine"
)

// Today is the date every store opened by NewStore considers current.
var Today = store.NewDate(2024, time.March, 4)

// Clock is the fixed clock behind Today.
var Clock = store.FixedClock{At: time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC)}

// NewStore opens a store in a fresh temporary directory and closes it when the test ends.
func NewStore(t *testing.T, options ...sqliteengine.Option) *sqliteengine.Store {
	t.Helper()

	options = append([]sqliteengine.Option{sqliteengine.WithClock(Clock)}, options...)

	s, err := sqliteengine.Open(filepath.Join(t.TempDir(), "library.db"), options...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}
