// Package session runs searches in the background on behalf of a front end.
// Only the most recent search matters: starting a new one cancels the old
// one, and the old outcome is never delivered.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"saucenao/acquire"
	"saucenao/databases"
	"saucenao/logging"
	"saucenao/models"
	"saucenao/saucenao"
)

// Ticket identifies one started search
type Ticket struct {
	ID  string
	seq uint64
}

// DeliverFunc receives the outcome of the current search
type DeliverFunc func(Ticket, models.Outcome)

// Runner owns the single outstanding search
type Runner struct {
	searcher saucenao.Searcher
	logger   *zap.Logger

	mu      sync.Mutex
	seq     uint64
	current uint64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates a runner around a searcher
func NewRunner(searcher saucenao.Searcher, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		searcher: searcher,
		logger:   logger.Named("session"),
	}
}

// Start cancels any running search and starts a new one. deliver is called
// from the search goroutine, and only if no newer search was started and the
// ticket was not cancelled in the meantime. Temporary inputs are cleaned up
// once the search is over.
func (r *Runner) Start(parent context.Context, in models.SearchInput, filter databases.Filter, deliver DeliverFunc) Ticket {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	ticket := Ticket{ID: uuid.NewString(), seq: r.seq}
	r.current = ticket.seq
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	opLogger := logging.WithOperation(r.logger, "session.search", ticket.ID)
	opLogger.Debug("search started", zap.String("input", in.Describe()), zap.String("dbs", filter.Label()))

	go func() {
		defer r.wg.Done()
		defer cancel()

		outcome := r.searcher.Search(ctx, in, filter)
		if err := acquire.Cleanup(in); err != nil {
			opLogger.Warn("failed to remove temporary image", zap.Error(err))
		}

		if !r.finish(ticket) {
			opLogger.Debug("dropping stale outcome", zap.Stringer("status", outcome.Status))
			return
		}
		if deliver != nil {
			deliver(ticket, outcome)
		}
	}()

	return ticket
}

// finish clears the running state if ticket is still current and reports
// whether its outcome should be delivered
func (r *Runner) finish(ticket Ticket) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != ticket.seq {
		return false
	}
	r.current = 0
	r.cancel = nil
	return true
}

// Cancel stops the search identified by ticket if it is still running. Its
// outcome will not be delivered.
func (r *Runner) Cancel(ticket Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != ticket.seq || r.cancel == nil {
		return
	}
	r.cancel()
	r.current = 0
	r.cancel = nil
	logging.WithOperation(r.logger, "session.cancel", ticket.ID).Debug("search cancelled")
}

// Busy reports whether a search is in flight
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != 0
}

// Wait blocks until every started search goroutine has returned
func (r *Runner) Wait() {
	r.wg.Wait()
}
