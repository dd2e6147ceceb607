package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/ifrs15/internal/smoke"
	"github.com/okian/ifrs15/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:3000", "Base URL of the server")
		prefix  = flag.String("prefix", "/api/v1/", "API path prefix")
		rounds  = flag.Int("rounds", smoke.DefaultRounds, "Times every check is repeated")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		format  = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose = flag.Bool("verbose", false, "Log every passed check")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp(os.Stdout)
		return
	}

	if err := logger.InitWith(os.Stdout, *format); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(2)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL:   *baseURL,
		APIPrefix: *prefix,
		Rounds:    *rounds,
		Workers:   *workers,
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if _, err := smoke.Run(ctx, config); err != nil {
		fmt.Fprintln(os.Stderr, "smoke run failed:", err)
		os.Exit(1)
	}
}
