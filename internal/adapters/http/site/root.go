// Package site serves static files from a directory on disk, backed by an
// embedded copy of the demo page.
package site

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/ifrs15/internal/adapters/http/middleware"
	"github.com/okian/ifrs15/pkg/metrics"
)

// DefaultDemoPage is the file demo routes are rewritten to.
const DefaultDemoPage = "demo-static.html"

// Error constants
var (
	ErrRoot     = errors.New("static root unusable")
	ErrDemoPage = errors.New("invalid demo page name")
)

// Handler is the static file fallback.
type Handler struct {
	root     string
	demoPage string
	fsys     fs.FS
	files    http.Handler
	metrics  *metrics.Manager
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithDemoPage sets the file name demo routes are rewritten to.
func WithDemoPage(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.demoPage = name
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(h *Handler) {
		if m != nil {
			h.metrics = m
		}
	}
}

// New serves files under root. The on-disk tree takes precedence over the
// embedded defaults.
func New(root string, opts ...Option) (*Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRoot, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRoot, abs)
	}

	h := &Handler{
		root:     abs,
		demoPage: DefaultDemoPage,
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if !fs.ValidPath(h.demoPage) || strings.Contains(h.demoPage, "/") {
		return nil, fmt.Errorf("%w: %q", ErrDemoPage, h.demoPage)
	}

	h.fsys = layeredFS{os.DirFS(abs), defaultsFS()}
	h.files = http.FileServer(http.FS(h.fsys))
	return h, nil
}

// Root returns the absolute directory files are served from.
func (h *Handler) Root() string { return h.root }

// DemoPath returns the request path of the demo page.
func (h *Handler) DemoPath() string { return "/" + h.demoPage }

// ServeHTTP serves r.URL.Path with standard file server semantics.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := middleware.Wrap(w)
	h.files.ServeHTTP(rec, r)
	h.metrics.StaticRequest(rec.Status() != http.StatusNotFound)
}

// ServeDemo serves the demo page regardless of the requested path.
func (h *Handler) ServeDemo(w http.ResponseWriter, r *http.Request) {
	h.metrics.DemoPage()
	target := h.DemoPath()
	// FileServer redirects explicit index.html requests to the directory.
	if h.demoPage == "index.html" {
		target = "/"
	}
	h.ServeHTTP(w, Rewrite(r, target))
}

// Rewrite returns a shallow copy of r whose path is replaced by path.
func Rewrite(r *http.Request, path string) *http.Request {
	r2 := r.Clone(r.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""
	return r2
}
