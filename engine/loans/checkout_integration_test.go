//go:build integration

package loans_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/engine/loans"
	"github.com/AntonStoeckl/library-lending-go/engine/members"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/testutil/postgrestest"
	. "github.com/AntonStoeckl/library-lending-go/testutil/sqlitetest" //nolint:revive
)

var container *postgrestest.Container

func TestMain(m *testing.M) {
	os.Exit(postgrestest.Run(m, &container))
}

func Test_Postgres_Checkout_ConcurrentContenders_NeverOverdrawShelf(t *testing.T) {
	testCases := []struct {
		copies      int
		contenders  int
		expectedWin int
	}{
		{copies: 1, contenders: 20, expectedWin: 1},
		{copies: 3, contenders: 12, expectedWin: 3},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d copies for %d members", tc.copies, tc.contenders), func(t *testing.T) {
			// setup
			s := postgrestest.NewStore(t, container)
			handler := loans.NewCommandHandler(
				s,
				loans.WithRetryOptions(shell.WithMaxAttempts(10), shell.WithBaseDelay(5*time.Millisecond)),
			)

			// arrange
			book := GivenBook(t, s, "978-0807083697", tc.copies)
			memberIDs := make([]int64, tc.contenders)
			for i := range memberIDs {
				memberIDs[i] = GivenMember(t, s, fmt.Sprintf("member%d@example.com", i)).ID
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			// act
			errs := make([]error, tc.contenders)
			start := make(chan struct{})

			var wg sync.WaitGroup
			for i, memberID := range memberIDs {
				wg.Add(1)

				go func() {
					defer wg.Done()
					<-start

					_, _, errs[i] = handler.Checkout(ctx, loans.BuildCheckoutCommand(memberID, book.ID, twoWeeks))
				}()
			}

			close(start)
			wg.Wait()

			// assert
			successes := 0
			for _, err := range errs {
				switch {
				case err == nil:
					successes++
				case errors.Is(err, store.ErrUnavailable):
				default:
					t.Errorf("unexpected checkout error: %v", err)
				}
			}

			assert.Equal(t, tc.expectedWin, successes)
			assert.Equal(t, 0, CopiesOf(t, s, book.ID))
			assert.EqualValues(t, tc.expectedWin, CountOf(t, s, store.KindLoan, activeLoansOfBook(book.ID)))
		})
	}
}

func Test_Postgres_CreateMember_ConcurrentSameEmail_OneConflict(t *testing.T) {
	// setup
	s := postgrestest.NewStore(t, container)
	handler := members.NewCommandHandler(s)

	const contenders = 6

	// act
	errs := make([]error, contenders)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := range contenders {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			_, _, errs[i] = handler.Create(context.Background(), members.CreateCommand{
				FirstName: "Ada",
				LastName:  fmt.Sprintf("Lovelace %d", i),
				Email:     "ada@example.com",
			})
		}()
	}

	close(start)
	wg.Wait()

	// assert
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}

		assert.ErrorIs(t, err, store.ErrConflict)
	}

	assert.Equal(t, 1, successes)
	require.EqualValues(t, 1, CountOf(t, s, store.KindMember, store.All()))
}
