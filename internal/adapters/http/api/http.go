// Package api serves the mock IFRS 15 JSON endpoints and CSV exports.
//
// Every document is rendered once when the Responder is built, so repeated
// requests return byte-identical bodies.
package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/okian/ifrs15/internal/domain/fixtures"
	"github.com/okian/ifrs15/internal/domain/model"
	"github.com/okian/ifrs15/pkg/logger"
	"github.com/okian/ifrs15/pkg/metrics"
)

// DefaultPrefix is the path prefix of every API route.
const DefaultPrefix = "/api/v1/"

// Endpoint names, relative to the prefix.
const (
	EndpointHealth    = "health"
	EndpointContracts = "contracts"
	EndpointRevenue   = "revenue"
	EndpointClients   = "clients"

	exportSegment = "export/"
)

// Response headers.
const (
	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv; charset=utf-8"
	allowedMethods  = "GET, HEAD, OPTIONS"
	allowedHeaders  = "Content-Type, X-Request-ID"
	preflightMaxAge = "600"
)

// Endpoints lists the JSON endpoints in dispatch order.
func Endpoints() []string {
	return []string{EndpointHealth, EndpointContracts, EndpointRevenue, EndpointClients}
}

// Exports lists the CSV export names.
func Exports() []string {
	return []string{"clients", "contracts", "revenue"}
}

type document struct {
	name string
	body []byte
}

type export struct {
	name     string
	fileName string
	body     []byte
}

// Responder answers every request under the API prefix.
type Responder struct {
	prefix   string
	strict   bool
	docs     map[string]document
	exports  map[string]export
	notFound []byte
	metrics  *metrics.Manager
	logger   logger.Logger
}

// Option applies a configuration option to the Responder.
type Option func(*Responder)

// WithPrefix sets the API path prefix. It must start and end with '/'.
func WithPrefix(prefix string) Option {
	return func(r *Responder) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithStrictNotFound answers unknown endpoints with 404 instead of 200.
func WithStrictNotFound(strict bool) Option {
	return func(r *Responder) {
		r.strict = strict
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *Responder) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Responder) {
		if l != nil {
			r.logger = l
		}
	}
}

// New renders every fixture and builds the dispatch tables.
func New(opts ...Option) (*Responder, error) {
	r := &Responder{
		prefix:  DefaultPrefix,
		docs:    make(map[string]document),
		exports: make(map[string]export),
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !strings.HasPrefix(r.prefix, "/") || !strings.HasSuffix(r.prefix, "/") {
		return nil, fmt.Errorf("%w: prefix %q", ErrInvalidRoute, r.prefix)
	}

	docs := map[string]any{
		EndpointHealth:    fixtures.Health(),
		EndpointContracts: fixtures.Contracts(),
		EndpointRevenue:   fixtures.Revenue(),
		EndpointClients:   fixtures.Clients(),
	}
	for _, name := range Endpoints() {
		body, err := encodeJSON(docs[name])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrEncode, name, err)
		}
		r.docs[r.prefix+name] = document{name: name, body: body}
	}

	for _, name := range Exports() {
		table, ok := fixtures.Export(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown export %s", ErrInvalidRoute, name)
		}
		body, err := encodeCSV(table)
		if err != nil {
			return nil, fmt.Errorf("%w: export %s: %w", ErrEncode, name, err)
		}
		r.exports[r.prefix+exportSegment+name] = export{name: name, fileName: table.FileName, body: body}
	}

	nf, err := encodeJSON(fixtures.NotFound())
	if err != nil {
		return nil, fmt.Errorf("%w: not found document: %w", ErrEncode, err)
	}
	r.notFound = nf

	return r, nil
}

// Prefix returns the API path prefix.
func (r *Responder) Prefix() string { return r.prefix }

// ServeHTTP dispatches on the exact request path.
func (r *Responder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		r.preflight(w)
		return
	default:
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	path := req.URL.Path
	if doc, ok := r.docs[path]; ok {
		r.metrics.DocumentServed(doc.name)
		writeBody(w, http.StatusOK, contentTypeJSON, doc.body)
		return
	}
	if exp, ok := r.exports[path]; ok {
		r.metrics.ExportServed(exp.name)
		w.Header().Set("Content-Disposition", `attachment; filename="`+exp.fileName+`"`)
		writeBody(w, http.StatusOK, contentTypeCSV, exp.body)
		return
	}

	r.metrics.UnknownEndpoint()
	if r.logger != nil {
		r.logger.Debug(req.Context(), "unknown api endpoint", logger.String("path", path))
	}
	status := http.StatusOK
	if r.strict {
		status = http.StatusNotFound
	}
	writeBody(w, status, contentTypeJSON, r.notFound)
}

func (r *Responder) preflight(w http.ResponseWriter) {
	r.metrics.Preflight()
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", allowedMethods)
	h.Set("Access-Control-Allow-Headers", allowedHeaders)
	h.Set("Access-Control-Max-Age", preflightMaxAge)
	w.WriteHeader(http.StatusNoContent)
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// encodeJSON renders v with 2-space indentation, no HTML escaping and
// ASCII-only output.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder terminates with a newline; the wire format has none.
	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites every non-ASCII rune as a lowercase \uXXXX escape,
// using a surrogate pair above the BMP. Non-ASCII bytes only occur inside
// JSON strings, so the result decodes to the same document.
func escapeNonASCII(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		if b[0] < utf8.RuneSelf {
			out = append(out, b[0])
			b = b[1:]
			continue
		}
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}

func encodeCSV(t model.Table) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(t.Header); err != nil {
		return nil, err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
