package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saucenao/databases"
	"saucenao/models"
)

// blockingSearcher returns once released or cancelled, like a slow request.
type blockingSearcher struct {
	mu       sync.Mutex
	started  chan string
	releases map[string]chan struct{}
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{started: make(chan string, 10), releases: map[string]chan struct{}{}}
}

func (b *blockingSearcher) release(url string) {
	b.mu.Lock()
	ch := b.releases[url]
	b.mu.Unlock()
	close(ch)
}

func (b *blockingSearcher) Search(ctx context.Context, in models.SearchInput, _ databases.Filter) models.Outcome {
	ch := make(chan struct{})
	b.mu.Lock()
	b.releases[in.URL] = ch
	b.mu.Unlock()
	b.started <- in.URL

	select {
	case <-ch:
		return models.Success("<html>" + in.URL + "</html>")
	case <-ctx.Done():
		return models.Interrupted(ctx.Err())
	}
}

type delivery struct {
	ticket  Ticket
	outcome models.Outcome
}

func collect() (DeliverFunc, chan delivery) {
	ch := make(chan delivery, 10)
	return func(t Ticket, o models.Outcome) { ch <- delivery{t, o} }, ch
}

func TestRunnerDeliversOutcome(t *testing.T) {
	searcher := newBlockingSearcher()
	runner := NewRunner(searcher, zap.NewNop())
	deliver, got := collect()

	ticket := runner.Start(context.Background(), models.NewURL("a"), databases.Filter{}, deliver)
	require.NotEmpty(t, ticket.ID)
	assert.Equal(t, "a", <-searcher.started)
	assert.True(t, runner.Busy())

	searcher.release("a")
	runner.Wait()

	d := <-got
	assert.Equal(t, ticket, d.ticket)
	assert.Equal(t, models.OutcomeOK, d.outcome.Status)
	assert.Equal(t, "<html>a</html>", d.outcome.Body)
	assert.False(t, runner.Busy())
}

func TestRunnerNewSearchSupersedesOld(t *testing.T) {
	searcher := newBlockingSearcher()
	runner := NewRunner(searcher, zap.NewNop())
	deliver, got := collect()

	runner.Start(context.Background(), models.NewURL("old"), databases.Filter{}, deliver)
	<-searcher.started
	second := runner.Start(context.Background(), models.NewURL("new"), databases.Filter{}, deliver)
	<-searcher.started

	searcher.release("new")
	runner.Wait()

	require.Len(t, got, 1, "the superseded search must not be delivered")
	d := <-got
	assert.Equal(t, second, d.ticket)
	assert.Equal(t, "<html>new</html>", d.outcome.Body)
}

func TestRunnerCancelDropsOutcome(t *testing.T) {
	searcher := newBlockingSearcher()
	runner := NewRunner(searcher, zap.NewNop())
	deliver, got := collect()

	ticket := runner.Start(context.Background(), models.NewURL("a"), databases.Filter{}, deliver)
	<-searcher.started
	runner.Cancel(ticket)
	runner.Wait()

	assert.Empty(t, got)
	assert.False(t, runner.Busy())
}

func TestRunnerCancelOfStaleTicketIsNoop(t *testing.T) {
	searcher := newBlockingSearcher()
	runner := NewRunner(searcher, zap.NewNop())
	deliver, got := collect()

	first := runner.Start(context.Background(), models.NewURL("first"), databases.Filter{}, deliver)
	<-searcher.started
	runner.Start(context.Background(), models.NewURL("second"), databases.Filter{}, deliver)
	<-searcher.started

	runner.Cancel(first)
	assert.True(t, runner.Busy(), "cancelling an old ticket leaves the current search running")

	searcher.release("second")
	runner.Wait()

	select {
	case d := <-got:
		assert.Equal(t, "<html>second</html>", d.outcome.Body)
	case <-time.After(time.Second):
		t.Fatal("current search was not delivered")
	}
}

type instantSearcher struct{ seen chan string }

func (s instantSearcher) Search(_ context.Context, in models.SearchInput, _ databases.Filter) models.Outcome {
	if _, err := os.Stat(in.Path); err == nil {
		s.seen <- in.Path
	}
	return models.GenericError(500, nil)
}

func TestRunnerRemovesTemporaryInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.img")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	in := models.NewImageHandle(path)
	in.Temporary = true

	searcher := instantSearcher{seen: make(chan string, 1)}
	runner := NewRunner(searcher, zap.NewNop())
	deliver, got := collect()

	runner.Start(context.Background(), in, databases.Filter{}, deliver)
	runner.Wait()

	assert.Equal(t, path, <-searcher.seen, "file exists while searching")
	assert.NoFileExists(t, path)
	assert.Equal(t, models.OutcomeGenericError, (<-got).outcome.Status)
}
