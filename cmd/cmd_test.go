package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saucenao/models"
)

type searchServer struct {
	*httptest.Server
	mu   sync.Mutex
	form map[string][]string
}

func (s *searchServer) fields() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func newSearchServer(t *testing.T, status int, body string) *searchServer {
	t.Helper()
	s := &searchServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			s.mu.Lock()
			s.form = r.MultipartForm.Value
			s.mu.Unlock()
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

// runCLI executes the root command in an isolated data directory
func runCLI(t *testing.T, endpoint string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("SAUCENAO_CONFIG", "")
	t.Setenv("SAUCENAO_DATA_DIR", dir)
	t.Setenv("SAUCENAO_ENDPOINT", endpoint)
	t.Setenv("SAUCENAO_LOG_LEVEL", "error")

	configPath, logLevel, debug = "", "", false
	searchDatabases, searchOut, searchRaw, searchHidden = databaseList{}, "", false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func fixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "results", "testdata", "search.html"))
	require.NoError(t, err)
	return string(data)
}

func TestSearchURLPrintsSummary(t *testing.T) {
	page := fixture(t)
	srv := newSearchServer(t, http.StatusOK, page)

	stdout, stderr, err := runCLI(t, srv.URL, "", "search", "https://example.com/cat.jpg", "--db", "5", "--db", "danbooru")
	require.NoError(t, err)

	form := srv.fields()
	assert.Equal(t, []string{"https://example.com/cat.jpg"}, form["url"])
	assert.Equal(t, []string{"5", "9"}, form["dbs[]"])

	assert.Contains(t, stdout, "93.21%")
	assert.Contains(t, stdout, "Creator: some artist")
	require.Contains(t, stderr, "Results page saved to ")

	saved := strings.TrimSpace(strings.TrimPrefix(stderr, "Results page saved to "))
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, page, string(data))
}

func TestSearchRawWritesBodyToOut(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, "<html>raw</html>")
	out := filepath.Join(t.TempDir(), "page.html")

	stdout, _, err := runCLI(t, srv.URL, "", "search", "https://example.com/cat.jpg", "--raw", "--out", out)
	require.NoError(t, err)
	assert.Equal(t, "<html>raw</html>", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<html>raw</html>", string(data))
	assert.Empty(t, srv.fields()["dbs[]"])
}

func TestSearchStdinUndecodableIsGenericError(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, "unused")

	_, _, err := runCLI(t, srv.URL, "definitely not an image", "search", "-")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Nil(t, srv.fields(), "no request is sent for an undecodable image")
}

func TestSearchExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   int
	}{
		{"rate limited", http.StatusTooManyRequests, "slow down", exitRateLimited},
		{"empty body", http.StatusOK, "", exitInterrupted},
		{"server error", http.StatusInternalServerError, "oops", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSearchServer(t, tt.status, tt.body)
			_, _, err := runCLI(t, srv.URL, "", "search", "https://example.com/cat.jpg")
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCode(err))
		})
	}
}

func TestSearchRejectsUnknownDatabase(t *testing.T) {
	_, _, err := runCLI(t, "https://saucenao.com/search.php", "", "search", "https://example.com/cat.jpg", "--db", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database")
}

func TestDatabasesListsCatalogue(t *testing.T) {
	stdout, _, err := runCLI(t, "https://saucenao.com/search.php", "", "databases")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CODE")
	assert.Contains(t, stdout, "pixiv Images")
	assert.Contains(t, stdout, "Danbooru")
}

func TestOutcomeError(t *testing.T) {
	cause := errors.New("connection reset")
	err := outcomeError(models.GenericError(0, cause))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, ExitCode(err))

	assert.Equal(t, exitRateLimited, ExitCode(outcomeError(models.RateLimited(http.StatusTooManyRequests))))
	assert.Equal(t, exitInterrupted, ExitCode(outcomeError(models.Interrupted(nil))))
	assert.Equal(t, 0, ExitCode(nil))
}

func TestDatabaseListFlag(t *testing.T) {
	var l databaseList
	require.NoError(t, l.Set("danbooru,5"))
	require.NoError(t, l.Set("9"))
	assert.Equal(t, []int{5, 9}, l.Filter().Codes())
	assert.Equal(t, "pixiv Images,Danbooru", l.String())
	assert.Equal(t, "database", l.Type())

	assert.Error(t, l.Set("nope"))
	assert.True(t, (&databaseList{}).Filter().Empty())
}
