package smoke

import (
	"errors"
	"net/http"
	"time"
)

// ErrVerification is returned when any check fails.
var ErrVerification = errors.New("smoke verification failed")

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL   string        // Base URL of the server
	APIPrefix string        // API path prefix
	Rounds    int           // Times every check is repeated
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Log every request
}

// Kind selects how a response is verified.
type Kind int

// Check kinds.
const (
	KindHealth Kind = iota
	KindContracts
	KindRevenue
	KindClients
	KindUnknown
	KindExport
	KindPage
)

// Check is one request the smoke run issues and verifies.
type Check struct {
	Name string
	Path string
	Kind Kind
}

// Result is the outcome of one request.
type Result struct {
	Check     Check
	Round     int
	RequestID string
	Status    int
	Header    http.Header
	Body      []byte
	Duration  time.Duration
	Err       error
}

// Stats holds run statistics.
type Stats struct {
	Requests  int
	Passed    int
	Failed    int
	Failures  []string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
