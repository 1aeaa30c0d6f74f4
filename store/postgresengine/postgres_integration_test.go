//go:build integration

package postgresengine_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/testutil/postgrestest"
	. "github.com/AntonStoeckl/library-lending-go/testutil/sqlitetest" //nolint:revive
)

var container *postgrestest.Container

func TestMain(m *testing.M) {
	os.Exit(postgrestest.Run(m, &container))
}

func Test_PostgresStore_InsertAndGet(t *testing.T) {
	// setup
	s := postgrestest.NewStore(t, container)
	ctx := context.Background()

	// arrange
	member := GivenMember(t, s, "ada@example.com")

	// act
	loaded, err := readMember(ctx, s, member.ID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, member, loaded)
	assert.Equal(t, Today, loaded.JoinDate)
}

func Test_PostgresStore_ClassifiesConstraintViolations(t *testing.T) {
	// setup
	s := postgrestest.NewStore(t, container)
	ctx := context.Background()

	// arrange
	GivenMember(t, s, "ada@example.com")
	book := GivenBook(t, s, "978-0441013593", 1)

	testCases := []struct {
		name        string
		work        store.TxFunc
		expectedErr error
	}{
		{
			name: "unique email",
			work: func(ctx context.Context, tx store.Tx) error {
				_, err := tx.Insert(ctx, store.KindMember,
					store.Member{FirstName: "A", LastName: "B", Email: "ada@example.com", JoinDate: Today}.Fields())
				return err
			},
			expectedErr: store.ErrConflict,
		},
		{
			name: "unknown category",
			work: func(ctx context.Context, tx store.Tx) error {
				category := int64(404)
				_, err := tx.Insert(ctx, store.KindBook,
					store.Book{Title: "T", ISBN: "1", CategoryID: &category, CopiesAvailable: 1}.Fields())
				return err
			},
			expectedErr: store.ErrInvalidReference,
		},
		{
			name: "negative copies",
			work: func(ctx context.Context, tx store.Tx) error {
				_, err := tx.Increment(ctx, store.KindBook, store.ColCopiesAvailable, -5, store.ByKey(store.KindBook, book.ID))
				return err
			},
			expectedErr: store.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := s.InTx(ctx, tc.work)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}

	assert.Equal(t, 1, CopiesOf(t, s, book.ID), "failed transactions must not leave partial effects")
}

func Test_PostgresStore_LockTimeout_IsTransient(t *testing.T) {
	// setup
	s := postgrestest.NewStore(t, container, postgresengine.WithLockTimeout(100*time.Millisecond))
	ctx := context.Background()

	// arrange
	book := GivenBook(t, s, "978-0441013593", 1)
	locked := make(chan struct{})
	release := make(chan struct{})
	holderDone := make(chan error, 1)

	go func() {
		holderDone <- s.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
			if _, err := store.LoadLocked[store.Book](ctx, tx, book.ID); err != nil {
				return err
			}

			close(locked)
			<-release

			return nil
		})
	}()

	<-locked

	// act
	err := s.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := store.LoadLocked[store.Book](ctx, tx, book.ID)
		return err
	})

	close(release)

	// assert
	assert.ErrorIs(t, err, store.ErrTransient)
	assert.NoError(t, <-holderDone)
}

func readMember(ctx context.Context, s *postgresengine.Store, id int64) (store.Member, error) {
	var member store.Member

	err := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		var err error
		member, err = store.Load[store.Member](ctx, r, id)

		return err
	})

	return member, err
}
