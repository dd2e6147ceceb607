// Package router classifies request paths and dispatches them to the API
// responder or the static file fallback.
package router

import (
	"context"
	"net/http"
	"strings"
)

// Route is the category a request path falls into.
type Route int

// Route categories.
const (
	RouteStatic Route = iota
	RouteAPI
	RouteDemoPage
)

func (r Route) String() string {
	switch r {
	case RouteAPI:
		return "api"
	case RouteDemoPage:
		return "demo"
	default:
		return "static"
	}
}

// StaticHandler serves files and the demo page.
type StaticHandler interface {
	http.Handler
	ServeDemo(w http.ResponseWriter, r *http.Request)
}

// Classifier maps a path to its Route.
type Classifier struct {
	apiPrefix  string
	demoRoutes map[string]struct{}
}

// NewClassifier builds a Classifier for the given API prefix and demo routes.
func NewClassifier(apiPrefix string, demoRoutes []string) Classifier {
	c := Classifier{apiPrefix: apiPrefix, demoRoutes: make(map[string]struct{}, len(demoRoutes))}
	for _, p := range demoRoutes {
		c.demoRoutes[p] = struct{}{}
	}
	return c
}

// Classify returns the route of path. Only the path is inspected; query
// strings and fragments never reach it.
func (c Classifier) Classify(path string) Route {
	if strings.HasPrefix(path, c.apiPrefix) {
		return RouteAPI
	}
	if _, ok := c.demoRoutes[path]; ok {
		return RouteDemoPage
	}
	return RouteStatic
}

// Router is the catch-all handler of the server.
type Router struct {
	classifier Classifier
	api        http.Handler
	static     StaticHandler
}

// New creates a Router.
func New(classifier Classifier, api http.Handler, static StaticHandler) *Router {
	return &Router{classifier: classifier, api: api, static: static}
}

// Label names the route of r for logs and metrics.
func (rt *Router) Label(r *http.Request) string {
	return rt.classifier.Classify(r.URL.Path).String()
}

// ServeHTTP dispatches r by route.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := rt.classifier.Classify(r.URL.Path)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		if route == RouteAPI {
			rt.api.ServeHTTP(w, r)
			return
		}
		fallthrough
	default:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	switch route {
	case RouteAPI:
		rt.api.ServeHTTP(w, r)
	case RouteDemoPage:
		rt.static.ServeDemo(w, r)
	default:
		rt.static.ServeHTTP(w, r)
	}
}

// Mount returns a handler that sends API paths straight to the router and
// everything else to next. ServeMux would otherwise answer non-canonical API
// paths such as "/api/v1//health" with a redirect that carries no CORS header.
func (rt *Router) Mount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.classifier.Classify(r.URL.Path) == RouteAPI {
			rt.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Register attaches the router as the catch-all route of mux.
func (rt *Router) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", rt)
}
