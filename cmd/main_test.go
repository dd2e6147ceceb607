package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/ifrs15/internal/app"
	"github.com/okian/ifrs15/internal/config"
	"github.com/okian/ifrs15/pkg/logger"
	"github.com/okian/ifrs15/pkg/metrics"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("IFRS15_ADDR", ":8081")
			_ = os.Setenv("IFRS15_STATIC_DIR", t.TempDir())
			defer func() {
				_ = os.Unsetenv("IFRS15_ADDR")
				_ = os.Unsetenv("IFRS15_STATIC_DIR")
			}()

			convey.Convey("Then configuration should feed the service", func() {
				var buf bytes.Buffer
				convey.So(logger.InitWith(&buf, logger.FormatJSON), convey.ShouldBeNil)

				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")

				svc, err := app.New(app.WithConfig(cfg), app.WithLogger(logger.Get()))
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Banner()[0], convey.ShouldEndWith, "http://localhost:8081")
			})
		})
	})
}

func TestPrintBanner(t *testing.T) {
	convey.Convey("Given banner lines", t, func() {
		var out, logs bytes.Buffer
		convey.So(logger.InitWith(&logs, logger.FormatJSON), convey.ShouldBeNil)
		lines := []string{"first line", "second line"}

		convey.Convey("When printing them", func() {
			printBanner(context.Background(), &out, lines, logger.Get())

			convey.Convey("Then stdout should carry every line", func() {
				convey.So(out.String(), convey.ShouldEqual, "first line\nsecond line\n")
			})

			convey.Convey("And the log should carry the headline", func() {
				var entry map[string]any
				convey.So(json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry), convey.ShouldBeNil)
				convey.So(entry["msg"], convey.ShouldEqual, "server ready")
				convey.So(entry["banner"], convey.ShouldEqual, "first line")
			})
		})

		convey.Convey("When there are no lines", func() {
			printBanner(context.Background(), &out, nil, logger.Get())
			convey.So(out.Len(), convey.ShouldEqual, 0)
			convey.So(strings.TrimSpace(logs.String()), convey.ShouldBeEmpty)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the global metrics registry", t, func() {
		convey.Convey("When sampling system metrics", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)

			convey.Convey("Then the gauges should be exported", func() {
				count, err := testutil.GatherAndCount(metrics.GetRegistry(),
					"ifrs15_devserver_system_memory_usage_bytes",
					"ifrs15_devserver_system_goroutine_count",
				)
				convey.So(err, convey.ShouldBeNil)
				convey.So(count, convey.ShouldEqual, 2)
			})
		})
	})
}
