package quill

import (
	"errors"
	"net/http"
	"strings"
)

// Mux is where the config route is mounted. *http.ServeMux and chi routers
// both satisfy it.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath joins basePath and the configured route path.
func MountPath(basePath string, fns ...OptionFn) string {
	return joinRoute(basePath, NewOptions(fns...).RoutePath)
}

// RegisterRoutes mounts the config handler under basePath and returns the
// pattern it used.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	return registerRoutes(mux, basePath, NewOptions(fns...))
}

func registerRoutes(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", errors.New("quill: mux is nil")
	}
	pattern := joinRoute(basePath, opts.RoutePath)
	mux.Handle(pattern, configHandler(opts))
	return pattern, nil
}

func joinRoute(basePath, routePath string) string {
	route := "/" + strings.TrimLeft(strings.TrimSpace(routePath), "/")
	if route == "/" {
		route = defaultRoutePath
	}
	base := strings.Trim(strings.TrimSpace(basePath), "/")
	if base == "" {
		return route
	}
	return "/" + base + route
}
