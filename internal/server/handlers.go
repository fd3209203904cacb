package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/goliatone/go-quillfield/pkg/formstate"
	"github.com/goliatone/go-quillfield/pkg/render"
	"github.com/goliatone/go-quillfield/pkg/schema"
)

type contentTypeSummary struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Form        string `json:"form"`
	Endpoint    string `json:"endpoint"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) openAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := schema.OpenAPIDocument(r.Context(), schema.DocumentInfo{Title: s.config.Title}, s.current().admin.Fields, s.contentTypes...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) listContentTypes(w http.ResponseWriter, _ *http.Request) {
	out := make([]contentTypeSummary, 0, len(s.contentTypes))
	for _, ct := range s.contentTypes {
		out = append(out, contentTypeSummary{
			UID:         ct.UID,
			DisplayName: ct.Info.DisplayName,
			Form:        "/forms/" + ct.FormID(),
			Endpoint:    ct.Endpoint(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// editorConfig serves the effective quill config of the active runtime.
func (s *Server) editorConfig(w http.ResponseWriter, r *http.Request) {
	s.current().configMux.ServeHTTP(w, r)
}

// showForm renders the create form, or the edit form when ?entry names a
// stored entry.
func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	ct, ok := s.contentType(formID)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "unknown form "+formID)
		return
	}

	entryID := r.URL.Query().Get("entry")
	var values map[string]any
	if entryID != "" {
		entry, ok := s.store.get(ct.UID, entryID)
		if !ok {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "unknown entry "+entryID)
			return
		}
		values = entry.Data
	}
	s.renderForm(w, r, ct, entryID, formstate.New(values, nil), nil, http.StatusOK)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, ct schema.ContentType, entryID string, state *formstate.State, formErrors []string, status int) {
	rt := s.current()
	form := rt.forms[ct.FormID()]
	opts := render.RenderOptions{
		Values:       state.Values(),
		Errors:       state.Errors(),
		FormErrors:   formErrors,
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken(csrfField, csrfToken(w, r))),
		Locale:       s.locale(r),
		Translator:   rt.catalog,
	}
	if entryID != "" {
		form.Endpoint = ct.Endpoint() + "/" + entryID
		opts.Method = http.MethodPut
	}

	html, err := rt.renderer.Render(r.Context(), form, opts)
	if err != nil {
		s.logger.Error().Err(err).Str("form", form.ID).Msg("render form")
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "failed to render form")
		return
	}
	writeHTML(w, status, rt.renderer.ContentType(), html)
}

func (s *Server) contentType(formID string) (schema.ContentType, bool) {
	for _, ct := range s.contentTypes {
		if ct.FormID() == formID {
			return ct, true
		}
	}
	return schema.ContentType{}, false
}

// locale picks the ?locale query parameter, then Accept-Language, matched
// against the configured locales.
func (s *Server) locale(r *http.Request) string {
	_, idx := language.MatchStrings(s.matcher, r.URL.Query().Get("locale"), r.Header.Get("Accept-Language"))
	return s.config.Locales[idx]
}
