package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all routes. Content types get a form page and an
// entry collection under their endpoint.
func (s *Server) setupRoutes() {
	r := s.router

	r.Get("/healthz", s.health)
	r.Get("/openapi.json", s.openAPI)
	r.Get("/content-types", s.listContentTypes)
	r.Handle(s.current().configPath, http.HandlerFunc(s.editorConfig))

	r.Get("/forms/{formID}", s.showForm)

	for _, ct := range s.contentTypes {
		ct := ct
		r.Route(ct.Endpoint(), func(r chi.Router) {
			r.Get("/", s.listEntries(ct))
			r.Post("/", s.createEntry(ct))
			r.Get("/{entryID}", s.getEntry(ct))
			r.Put("/{entryID}", s.updateEntry(ct))
		})
	}
}

// methodOverride turns a form POST carrying _method=PUT or PATCH into that
// method so HTML forms can reach the update routes.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isFormRequest(r) {
			if err := r.ParseForm(); err == nil {
				switch method := strings.ToUpper(strings.TrimSpace(r.PostForm.Get("_method"))); method {
				case http.MethodPut, http.MethodPatch:
					r.Method = method
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isFormRequest(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data")
}
