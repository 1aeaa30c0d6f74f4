package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/config"
	"github.com/AntonStoeckl/library-lending-go/engine"
	"github.com/AntonStoeckl/library-lending-go/engine/books"
	"github.com/AntonStoeckl/library-lending-go/engine/loans"
	"github.com/AntonStoeckl/library-lending-go/engine/members"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

var errInvalidLoadSettings = errors.New("invalid load settings")

type loadSettings struct {
	rate           int
	duration       time.Duration
	books          int
	members        int
	copies         int
	checkoutWeight int
}

func (s loadSettings) validate() error {
	switch {
	case s.rate <= 0:
		return fmt.Errorf("%w: rate must be positive", errInvalidLoadSettings)
	case s.books <= 0 || s.members <= 0 || s.copies <= 0:
		return fmt.Errorf("%w: books, members and copies must be positive", errInvalidLoadSettings)
	case s.checkoutWeight < 0 || s.checkoutWeight > 100:
		return fmt.Errorf("%w: checkout weight %d out of range [0, 100]", errInvalidLoadSettings, s.checkoutWeight)
	}

	return nil
}

func newLoadCommand(a *app) *cobra.Command {
	settings := loadSettings{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Generate lending traffic against the database",
		Long: `Seed books and members, then check out and return books at a fixed rate.

Every book has few copies and many members compete for them, so the run exercises
row locking, retries and the Unavailable/Conflict rejections. Outcomes are tallied
by kind and printed when the run ends.

Examples:
  librarian load --rate 200 --duration 30s
  librarian load --books 5 --copies 1 --members 500 --checkout-weight 70`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := settings.validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if settings.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, settings.duration)
				defer cancel()
			}

			return a.load(ctx, settings, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&settings.rate, "rate", 50, "Operations per second")
	cmd.Flags().DurationVar(&settings.duration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	cmd.Flags().IntVar(&settings.books, "books", 20, "Number of books to seed")
	cmd.Flags().IntVar(&settings.members, "members", 100, "Number of members to seed")
	cmd.Flags().IntVar(&settings.copies, "copies", 2, "Copies of every seeded book")
	cmd.Flags().IntVar(&settings.checkoutWeight, "checkout-weight", 60, "Percentage of operations that are checkouts")

	return cmd
}

func (a *app) load(ctx context.Context, settings loadSettings, out io.Writer) error {
	s, closeStore, err := a.openStore(ctx, config.Instrumentation{})
	if err != nil {
		return err
	}
	defer closeStore()

	library, err := engine.NewLibrary(s, engine.WithRetryOptions(
		shell.WithMaxAttempts(a.cfg.RetryMaxAttempts),
		shell.WithBaseDelay(a.cfg.RetryBaseDelay),
	))
	if err != nil {
		return err
	}

	gen, err := seedLoad(ctx, library, settings)
	if err != nil {
		return err
	}

	gen.run(ctx)
	gen.report(out)

	return nil
}

// loadGenerator drives random checkouts and returns and tallies their outcomes.
type loadGenerator struct {
	library   *engine.Library
	settings  loadSettings
	bookIDs   []int64
	memberIDs []int64

	mu          sync.Mutex
	activeLoans []int64
	outcomes    map[string]int
	started     time.Time
	finished    time.Time
	wg          sync.WaitGroup
}

func seedLoad(ctx context.Context, library *engine.Library, settings loadSettings) (*loadGenerator, error) {
	gen := &loadGenerator{
		library:  library,
		settings: settings,
		outcomes: make(map[string]int),
	}

	// a run id keeps emails and ISBNs unique across repeated runs on one database
	runID := time.Now().UnixNano()

	for i := range settings.books {
		copies := settings.copies

		book, err := library.CreateBook(ctx, books.CreateCommand{
			Title:           fmt.Sprintf("Load Test Book %d", i),
			ISBN:            fmt.Sprintf("L%d-%d", runID%1_000_000_000, i),
			CopiesAvailable: &copies,
		})
		if err != nil {
			return nil, fmt.Errorf("seeding books: %w", err)
		}

		gen.bookIDs = append(gen.bookIDs, book.ID)
	}

	for i := range settings.members {
		member, err := library.CreateMember(ctx, members.CreateCommand{
			FirstName: "Load",
			LastName:  fmt.Sprintf("Member %d", i),
			Email:     fmt.Sprintf("load-%d-%d@example.com", runID, i),
		})
		if err != nil {
			return nil, fmt.Errorf("seeding members: %w", err)
		}

		gen.memberIDs = append(gen.memberIDs, member.ID)
	}

	return gen, nil
}

func (g *loadGenerator) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(g.settings.rate))
	defer ticker.Stop()

	g.started = time.Now()

	for {
		select {
		case <-ctx.Done():
			g.wg.Wait()
			g.finished = time.Now()

			return
		case <-ticker.C:
			g.wg.Add(1)

			go func() {
				defer g.wg.Done()
				g.step(context.WithoutCancel(ctx))
			}()
		}
	}
}

func (g *loadGenerator) step(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rand.IntN(100) < g.settings.checkoutWeight { //nolint:gosec // load pattern, not security
		g.checkout(opCtx)
		return
	}

	g.giveBack(opCtx)
}

func (g *loadGenerator) checkout(ctx context.Context) {
	memberID := g.memberIDs[rand.IntN(len(g.memberIDs))] //nolint:gosec // load pattern, not security
	bookID := g.bookIDs[rand.IntN(len(g.bookIDs))] //nolint:gosec // load pattern, not security

	loan, err := g.library.CheckoutBook(ctx, loans.BuildCheckoutCommand(memberID, bookID, store.DateOf(time.Now().AddDate(0, 0, 14))))

	g.mu.Lock()
	defer g.mu.Unlock()

	g.outcomes["checkout/"+outcomeOf(err)]++
	if err == nil {
		g.activeLoans = append(g.activeLoans, loan.ID)
	}
}

func (g *loadGenerator) giveBack(ctx context.Context) {
	g.mu.Lock()
	if len(g.activeLoans) == 0 {
		g.outcomes["return/skipped"]++
		g.mu.Unlock()

		return
	}

	i := rand.IntN(len(g.activeLoans)) //nolint:gosec // load pattern, not security
	loanID := g.activeLoans[i]
	g.activeLoans = slices.Delete(g.activeLoans, i, i+1)
	g.mu.Unlock()

	_, err := g.library.ReturnBook(ctx, loans.BuildReturnCommand(loanID))

	g.mu.Lock()
	defer g.mu.Unlock()

	g.outcomes["return/"+outcomeOf(err)]++
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}

	return store.ErrorKind(err)
}

func (g *loadGenerator) report(out io.Writer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := 0
	keys := make([]string, 0, len(g.outcomes))
	for k, n := range g.outcomes {
		keys = append(keys, k)
		total += n
	}

	slices.Sort(keys)

	elapsed := g.finished.Sub(g.started)
	_, _ = fmt.Fprintf(out, "%d operations in %s (%.1f/s), %d loans still active\n",
		total, elapsed.Round(time.Millisecond), float64(total)/max(elapsed.Seconds(), 0.001), len(g.activeLoans))

	for _, k := range keys {
		_, _ = fmt.Fprintf(out, "  %-28s %d\n", k, g.outcomes[k])
	}
}
