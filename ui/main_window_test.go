package ui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saucenao/databases"
	"saucenao/models"
	"saucenao/session"
	"saucenao/storage"
)

// heldSearcher blocks every search until it is cancelled or released
type heldSearcher struct {
	release chan struct{}
}

func (h *heldSearcher) Search(ctx context.Context, in models.SearchInput, _ databases.Filter) models.Outcome {
	select {
	case <-h.release:
		return models.Success("<html>" + in.URL + "</html>")
	case <-ctx.Done():
		return models.Interrupted(ctx.Err())
	}
}

func newTestWindow(t *testing.T, searcher *heldSearcher) (*MainWindow, *session.Runner) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	runner := session.NewRunner(searcher, zap.NewNop())
	mw := NewMainWindow(Dependencies{
		App:     a,
		Storage: storage.NewManager(t.TempDir(), zap.NewNop()),
		Runner:  runner,
		Logger:  zap.NewNop(),
	})
	return mw, runner
}

func TestStartSearchReplacesRunningProgressDialog(t *testing.T) {
	searcher := &heldSearcher{release: make(chan struct{})}
	mw, runner := newTestWindow(t, searcher)
	overlays := mw.window.Canvas().Overlays()

	mw.startSearch(models.NewURL("https://example.com/first.png"))
	require.Len(t, overlays.List(), 1)
	first := mw.progress

	mw.startSearch(models.NewURL("https://example.com/second.png"))
	assert.Len(t, overlays.List(), 1, "only the newest search shows a progress dialog")
	assert.NotSame(t, first, mw.progress)
	assert.True(t, runner.Busy())

	// cancelling the remaining search clears the window
	mw.progress.Hide()
	runner.Wait()
	assert.False(t, runner.Busy())
	assert.Empty(t, overlays.List())
}

func TestFinishedSearchDismissesProgressDialog(t *testing.T) {
	searcher := &heldSearcher{release: make(chan struct{})}
	mw, runner := newTestWindow(t, searcher)

	mw.startSearch(models.NewURL("https://example.com/cat.png"))
	require.NotNil(t, mw.window.Canvas().Overlays().Top())

	close(searcher.release)
	runner.Wait()

	require.Eventually(t, func() bool {
		mw.progressMu.Lock()
		defer mw.progressMu.Unlock()
		return mw.progress == nil
	}, time.Second, 10*time.Millisecond)
	assert.Nil(t, mw.window.Canvas().Overlays().Top())
}
