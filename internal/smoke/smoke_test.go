package smoke

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/ifrs15/internal/app"
	"github.com/okian/ifrs15/internal/config"
	"github.com/okian/ifrs15/pkg/logger"
	"github.com/okian/ifrs15/pkg/metrics"
)

func init() {
	if err := logger.InitWith(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
}

func devServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.New()
	cfg.StaticDir = t.TempDir()
	reg := prometheus.NewRegistry()
	svc, err := service.New(
		service.WithConfig(cfg),
		service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(reg)), reg),
	)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAgainstDevServer(t *testing.T) {
	Convey("Given a running development server", t, func() {
		srv := devServer(t)

		Convey("When running the smoke checks", func() {
			stats, err := Run(context.Background(), &Config{
				BaseURL: srv.URL,
				Rounds:  3,
				Workers: 4,
				Timeout: 5 * time.Second,
				Verbose: true,
			})

			Convey("Then every check should pass", func() {
				So(err, ShouldBeNil)
				So(stats.Failures, ShouldBeEmpty)
				So(stats.Requests, ShouldEqual, 3*len(DefaultChecks("/api/v1/")))
				So(stats.Passed, ShouldEqual, stats.Requests)
			})
		})
	})
}

func TestRunDetectsFaults(t *testing.T) {
	Convey("Given a server whose health document changes on every request", t, func() {
		inner := devServer(t)
		var hits atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/health" {
				w.Header().Set("X-Request-ID", r.Header.Get("X-Request-ID"))
				w.Header().Set("Access-Control-Allow-Origin", "*")
				n := hits.Add(1)
				_, _ = io.WriteString(w, `{"status":"healthy","timestamp":"`+strings.Repeat("x", int(n))+`","version":"1","service":"s"}`)
				return
			}
			proxy(w, r, inner.URL)
		}))
		defer srv.Close()

		Convey("When running the smoke checks", func() {
			stats, err := Run(context.Background(), &Config{BaseURL: srv.URL, Rounds: 2, Workers: 2})

			Convey("Then the drift should be reported", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
				So(stats.Failed, ShouldEqual, 1)
				So(stats.Failures[0], ShouldContainSubstring, "health")
			})
		})
	})

	Convey("Given nothing listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Convey("Then every check should fail", func() {
			stats, err := Run(context.Background(), &Config{BaseURL: url, Rounds: 1, Workers: 2, Timeout: time.Second})
			So(errors.Is(err, ErrVerification), ShouldBeTrue)
			So(stats.Passed, ShouldEqual, 0)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a well formed unknown endpoint response", t, func() {
		r := Result{
			Check:     Check{Name: "unknown", Kind: KindUnknown},
			RequestID: "id-1",
			Status:    http.StatusOK,
			Header:    http.Header{"X-Request-Id": {"id-1"}, "Access-Control-Allow-Origin": {"*"}},
			Body:      []byte(expectedNotFound),
		}

		Convey("Then it should pass", func() {
			So(verify(r), ShouldBeNil)
		})

		Convey("Then a 404 should fail", func() {
			r.Status = http.StatusNotFound
			So(verify(r), ShouldNotBeNil)
		})

		Convey("Then a missing CORS header should fail", func() {
			r.Header.Del("Access-Control-Allow-Origin")
			So(verify(r), ShouldNotBeNil)
		})

		Convey("Then a compact body should fail", func() {
			r.Body = []byte(`{"error":"Endpoint not found"}`)
			So(verify(r), ShouldNotBeNil)
		})
	})

	Convey("Given a contracts document with an extra field", t, func() {
		r := Result{
			Check:     Check{Name: "contracts", Kind: KindContracts},
			RequestID: "id-2",
			Status:    http.StatusOK,
			Header:    http.Header{"X-Request-Id": {"id-2"}, "Access-Control-Allow-Origin": {"*"}},
			Body:      []byte(`{"data":[],"total":0,"page":1}`),
		}

		Convey("Then strict decoding should reject it", func() {
			So(verify(r), ShouldNotBeNil)
		})
	})
}

// proxy forwards r to base with the same path.
func proxy(w http.ResponseWriter, r *http.Request, base string) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, base+r.URL.RequestURI(), http.NoBody)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()
	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	_, _ = w.Write(buf.Bytes())
}
