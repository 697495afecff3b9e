package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServesPagesWithReloadScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-GEN.html"), []byte("<html><body>Genesis</body></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0644))

	srv := httptest.NewServer(newMux(newHub(quietLogger()), dir, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/01-GEN.html")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "new WebSocket")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(body)), "</html>"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))

	resp, err = http.Get(srv.URL + "/style.css")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "body{}", string(body))

	resp, err = http.Get(srv.URL + "/missing.html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "txsite_pages_written_total 3\n")
	})
	srv := httptest.NewServer(newMux(newHub(quietLogger()), t.TempDir(), metrics))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "txsite_pages_written_total")
}

func TestHubBroadcastsReload(t *testing.T) {
	hub := newHub(quietLogger())
	srv := httptest.NewServer(newMux(hub, t.TempDir(), nil))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.broadcastMessage([]byte("reload"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
}

func TestWatchPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "content", "nested"), 0755))
	file := filepath.Join(root, "templates", "project-page.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	paths := []string{filepath.Join(root, "content"), file, filepath.Join(root, "missing"), ""}
	require.NoError(t, watchPaths(watcher, paths, quietLogger()))

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "content"),
		filepath.Join(root, "content", "nested"),
		filepath.Join(root, "templates"),
	}, watcher.WatchList())
}
