package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// BuildFunc rebuilds the site. clean asks for the output directory to be emptied first.
type BuildFunc func(clean bool) error

// Options configures the preview server.
type Options struct {
	Port       int
	OutputDir  string
	WatchPaths []string
	Metrics    http.Handler
	Logger     *slog.Logger
}

// Run builds once, then serves OutputDir, rebuilding and reloading connected
// browsers whenever a watched path changes.
func Run(opts Options, build BuildFunc) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := build(true); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchPaths(watcher, opts.WatchPaths, logger); err != nil {
		return err
	}
	go watchForChanges(watcher, hub, build, logger)

	addr := fmt.Sprintf(":%d", opts.Port)
	logger.Info("Serving site", "url", "http://localhost"+addr)
	return http.ListenAndServe(addr, newMux(hub, opts.OutputDir, opts.Metrics))
}

func newMux(hub *Hub, outputDir string, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	mux.Handle("/", liveReloadWrapper(http.FileServer(http.Dir(outputDir))))
	return mux
}

// watchPaths adds every directory under the given paths to the watcher. Files
// are watched through their parent directory so editor save-swaps are seen.
func watchPaths(watcher *fsnotify.Watcher, paths []string, logger *slog.Logger) error {
	watched := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			logger.Warn("Could not watch directory", "dir", dir, "error", err)
			return
		}
		logger.Debug("Watching directory", "dir", dir)
		watched[dir] = true
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", path, err)
		}
		if !info.IsDir() {
			addWatch(filepath.Dir(path))
			continue
		}
		if err := filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				addWatch(walkPath)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
	}
	return nil
}

func watchForChanges(watcher *fsnotify.Watcher, hub *Hub, build BuildFunc, logger *slog.Logger) {
	var lastBuildTime time.Time
	const debounceDuration = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastBuildTime) <= debounceDuration {
				continue
			}
			time.Sleep(100 * time.Millisecond)

			logger.Info("Change detected, rebuilding", "path", event.Name)
			if err := build(false); err != nil {
				logger.Error("Rebuild failed", "error", err)
			} else {
				logger.Info("Site rebuilt, reloading clients", "clients", hub.count())
				hub.broadcastMessage([]byte("reload"))
			}
			lastBuildTime = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", "error", err)
		}
	}
}

func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter(w)
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		bodyBytes := iw.body.Bytes()
		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(bodyBytes)
			return
		}

		injectedBody := bytes.Replace(bodyBytes, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injectedBody)))
		w.WriteHeader(iw.statusCode)
		w.Write(injectedBody)
	})
}

// interceptingWriter buffers a response so the reload script can be injected.
type interceptingWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter(w http.ResponseWriter) *interceptingWriter {
	return &interceptingWriter{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		header:         make(http.Header),
		statusCode:     http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header {
	return iw.header
}

func (iw *interceptingWriter) Write(b []byte) (int, error) {
	return iw.body.Write(b)
}

func (iw *interceptingWriter) WriteHeader(statusCode int) {
	iw.statusCode = statusCode
}

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection error. Please restart 'txsite serve'.");
    };
  })();
</script>
`
