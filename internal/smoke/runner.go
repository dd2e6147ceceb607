package smoke

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/ifrs15/internal/adapters/http/api"
	"github.com/okian/ifrs15/pkg/logger"
)

type job struct {
	check Check
	round int
}

// Run issues every check for the configured number of rounds and verifies
// the responses. The returned error wraps ErrVerification when any check
// failed.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := withDefaults(config)
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("rounds", cfg.Rounds),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	checks := DefaultChecks(cfg.APIPrefix)
	results := execute(ctx, cfg, checks)

	for _, r := range results {
		stats.Requests++
		if err := verify(r); err != nil {
			stats.fail(fmt.Sprintf("%s round %d: %v", r.Check.Name, r.Round, err))
			continue
		}
		stats.Passed++
		if cfg.Verbose {
			log.Debug(ctx, "check passed",
				logger.String("check", r.Check.Name),
				logger.Int("round", r.Round),
				logger.String("request_id", r.RequestID),
				logger.Duration("duration", r.Duration),
			)
		}
	}
	for _, msg := range compare(checks, results) {
		stats.fail(msg)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Failed > 0 {
		for _, msg := range stats.Failures {
			log.Error(ctx, "check failed", logger.String("detail", msg))
		}
		return stats, fmt.Errorf("%w: %d of %d checks failed", ErrVerification, stats.Failed, stats.Requests)
	}
	log.Info(ctx, "smoke run completed successfully")
	return stats, nil
}

func (s *Stats) fail(msg string) {
	s.Failed++
	s.Failures = append(s.Failures, msg)
}

func withDefaults(config *Config) Config {
	cfg := *config
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = api.DefaultPrefix
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultRounds
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// execute fans the jobs out to a worker pool and gathers every result.
func execute(ctx context.Context, cfg Config, checks []Check) []Result {
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	jobs := make(chan job, cfg.Workers*WorkerChannelMultiplier)
	out := make(chan Result, cfg.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out <- client.do(ctx, j.check, j.round)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for round := range cfg.Rounds {
			for _, c := range checks {
				select {
				case <-ctx.Done():
					return
				case jobs <- job{check: c, round: round}:
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]Result, 0, cfg.Rounds*len(checks))
	for r := range out {
		results = append(results, r)
	}
	return results
}

// compare reports bodies that differ between rounds of the same check and
// pages that differ from the demo page.
func compare(checks []Check, results []Result) []string {
	first := make(map[string][]byte, len(checks))
	var failures []string
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		prev, ok := first[r.Check.Name]
		if !ok {
			first[r.Check.Name] = r.Body
			continue
		}
		if !bytes.Equal(prev, r.Body) {
			failures = append(failures, fmt.Sprintf("%s round %d: body differs from an earlier round", r.Check.Name, r.Round))
		}
	}

	var demo []byte
	for _, c := range checks {
		if c.Path == demoPagePath {
			demo = first[c.Name]
		}
	}
	for _, c := range checks {
		if c.Kind != KindPage || c.Path == demoPagePath {
			continue
		}
		if body, ok := first[c.Name]; ok && !bytes.Equal(body, demo) {
			failures = append(failures, fmt.Sprintf("%s: page differs from %s", c.Name, demoPagePath))
		}
	}
	return failures
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.Requests > 0 {
		successRate = float64(stats.Passed) / float64(stats.Requests) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("requests", stats.Requests),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond),
	)
}
