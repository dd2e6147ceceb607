package smoke

import (
	"fmt"
	"io"
)

// ShowHelp prints usage information for the smoke tool.
func ShowHelp(w io.Writer) {
	_, _ = fmt.Fprint(w, `IFRS 15 Smoke Tool
==================

Concurrently requests every endpoint and page of a running development
server and verifies status codes, headers, document shapes and that
repeated requests return byte-identical bodies.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the server (default "http://localhost:3000")
  -prefix string
        API path prefix (default "/api/v1/")
  -rounds int
        Times every check is repeated (default 3)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Log every passed check
  -help
        Show this help message

Examples:
  go run ./cmd/smoke
  go run ./cmd/smoke -rounds 20 -workers 16 -url http://localhost:8080
`)
}
