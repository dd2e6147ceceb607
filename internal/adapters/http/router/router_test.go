package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ifrs15/internal/adapters/http/api"
	"github.com/okian/ifrs15/internal/adapters/http/router"
	"github.com/okian/ifrs15/internal/adapters/http/site"
	"github.com/okian/ifrs15/pkg/metrics"
)

var demoRoutes = []string{"/", "/dashboard", "/contracts", "/revenue"}

// recordingStatic remembers which entry point the router used.
type recordingStatic struct {
	lastPath string
	demo     bool
}

func (s *recordingStatic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lastPath, s.demo = r.URL.Path, false
	w.WriteHeader(http.StatusOK)
}

func (s *recordingStatic) ServeDemo(w http.ResponseWriter, r *http.Request) {
	s.lastPath, s.demo = r.URL.Path, true
	w.WriteHeader(http.StatusOK)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestClassify(t *testing.T) {
	Convey("Given the default classifier", t, func() {
		c := router.NewClassifier("/api/v1/", demoRoutes)

		cases := []struct {
			path string
			want router.Route
		}{
			{"/api/v1/health", router.RouteAPI},
			{"/api/v1/", router.RouteAPI},
			{"/api/v1/a/b/c", router.RouteAPI},
			{"/api/v1", router.RouteStatic},
			{"/api/v2/health", router.RouteStatic},
			{"/", router.RouteDemoPage},
			{"/dashboard", router.RouteDemoPage},
			{"/contracts", router.RouteDemoPage},
			{"/revenue", router.RouteDemoPage},
			{"/dashboard/", router.RouteStatic},
			{"/Dashboard", router.RouteStatic},
			{"/demo-static.html", router.RouteStatic},
			{"/favicon.ico", router.RouteStatic},
		}
		for _, tc := range cases {
			Convey("Then "+tc.path+" should be "+tc.want.String(), func() {
				So(c.Classify(tc.path), ShouldEqual, tc.want)
			})
		}
	})
}

func TestRouterDispatch(t *testing.T) {
	Convey("Given a router with a recording static handler", t, func() {
		static := &recordingStatic{}
		apiHits := 0
		apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiHits++
			w.WriteHeader(http.StatusOK)
		})
		rt := router.New(router.NewClassifier("/api/v1/", demoRoutes), apiHandler, static)

		Convey("When an API path is requested with a query string", func() {
			do(rt, http.MethodGet, "/api/v1/contracts?page=2")

			Convey("Then the API handler should receive it", func() {
				So(apiHits, ShouldEqual, 1)
				So(static.lastPath, ShouldBeEmpty)
			})
		})

		Convey("When a demo route is requested", func() {
			do(rt, http.MethodGet, "/revenue?x=1")

			Convey("Then the demo entry point should be used", func() {
				So(static.demo, ShouldBeTrue)
				So(static.lastPath, ShouldEqual, "/revenue")
			})
		})

		Convey("When any other path is requested", func() {
			do(rt, http.MethodGet, "/assets/app.js")

			Convey("Then the path should be forwarded unchanged", func() {
				So(static.demo, ShouldBeFalse)
				So(static.lastPath, ShouldEqual, "/assets/app.js")
			})
		})

		Convey("When a preflight hits an API path", func() {
			do(rt, http.MethodOptions, "/api/v1/health")

			Convey("Then the API handler should answer it", func() {
				So(apiHits, ShouldEqual, 1)
			})
		})

		Convey("When a preflight hits a static path", func() {
			w := do(rt, http.MethodOptions, "/style.css")

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(static.lastPath, ShouldBeEmpty)
			})
		})

		Convey("When a write method is used", func() {
			w := do(rt, http.MethodDelete, "/dashboard")

			Convey("Then it should be rejected with an Allow header", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
			})
		})

		Convey("When labeling requests", func() {
			So(rt.Label(httptest.NewRequest(http.MethodGet, "/api/v1/x", http.NoBody)), ShouldEqual, "api")
			So(rt.Label(httptest.NewRequest(http.MethodGet, "/", http.NoBody)), ShouldEqual, "demo")
			So(rt.Label(httptest.NewRequest(http.MethodGet, "/a.png", http.NoBody)), ShouldEqual, "static")
		})
	})
}

func TestRouterEndToEnd(t *testing.T) {
	Convey("Given a router over the real responder and static fallback", t, func() {
		m := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
		responder, err := api.New(api.WithMetrics(m))
		So(err, ShouldBeNil)
		static, err := site.New(t.TempDir(), site.WithMetrics(m))
		So(err, ShouldBeNil)

		mux := http.NewServeMux()
		rt := router.New(router.NewClassifier(responder.Prefix(), demoRoutes), responder, static)
		rt.Register(context.Background(), mux)

		Convey("Then every demo route should match the demo page byte for byte", func() {
			direct := do(mux, http.MethodGet, "/demo-static.html")
			So(direct.Code, ShouldEqual, http.StatusOK)
			for _, p := range demoRoutes {
				w := do(mux, http.MethodGet, p)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, direct.Body.String())
			}
		})

		Convey("Then API responses should carry the CORS header", func() {
			for _, p := range []string{"/api/v1/health", "/api/v1/contracts", "/api/v1/revenue", "/api/v1/nope"} {
				w := do(mux, http.MethodGet, p)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			}
		})

		Convey("Then missing static files should be 404", func() {
			So(do(mux, http.MethodGet, "/nothing-here.txt").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then a non-canonical API path mounted ahead of the mux should reach the responder", func() {
			h := rt.Mount(mux)
			w := do(h, http.MethodGet, "/api/v1//health")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			So(w.Header().Get("Location"), ShouldBeEmpty)
			So(w.Body.String(), ShouldEqual, "{\n  \"error\": \"Endpoint not found\"\n}")

			So(do(h, http.MethodGet, "/api/v1/health").Body.String(), ShouldContainSubstring, `"status": "healthy"`)
			So(do(h, http.MethodGet, "/dashboard").Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then a nil mux should panic on register", func() {
			So(func() { rt.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
