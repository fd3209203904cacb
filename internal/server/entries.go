package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-quillfield/pkg/formstate"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/render"
	"github.com/goliatone/go-quillfield/pkg/schema"
	"github.com/goliatone/go-quillfield/pkg/validation"
)

const datetimeLocalLayout = "2006-01-02T15:04"

func (s *Server) listEntries(ct schema.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": s.store.list(ct.UID)})
	}
}

func (s *Server) getEntry(ct schema.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "entryID")
		entry, ok := s.store.get(ct.UID, id)
		if !ok {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "unknown entry "+id)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": entry})
	}
}

func (s *Server) createEntry(ct schema.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.submit(w, r, ct, "")
	}
}

func (s *Server) updateEntry(ct schema.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "entryID")
		if _, ok := s.store.get(ct.UID, id); !ok {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "unknown entry "+id)
			return
		}
		s.submit(w, r, ct, id)
	}
}

// submit validates and stores an entry. HTML form posts must carry the CSRF
// token and get the form back with inline errors, or a redirect to the edit
// form on success; JSON requests get JSON either way.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, ct schema.ContentType, id string) {
	rt := s.current()
	form := rt.forms[ct.FormID()]
	htmlForm := isFormRequest(r)

	var data map[string]any
	if htmlForm {
		if err := parseForm(r); err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
			return
		}
		if !validCSRF(r) {
			writeError(w, http.StatusForbidden, ErrCodeForbidden, "missing or invalid CSRF token")
			return
		}
		data = entryFromForm(form, r.PostForm)
	} else if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, fmt.Sprintf("decode entry: %v", err))
		return
	}

	if err := rt.validator.ValidateEntry(ct, data); err != nil {
		var verr *validation.Error
		if !errors.As(err, &verr) {
			s.logger.Error().Err(err).Str("contentType", ct.UID).Msg("validate entry")
			writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
			return
		}
		if !htmlForm {
			writeErrorWithDetails(w, http.StatusBadRequest, ErrCodeValidation, "entry is invalid", map[string]any{
				"issues": verr.Result.Issues,
			})
			return
		}
		state := formstate.New(data, nil)
		formErrors := state.ApplyResult(verr.Result)
		mapping := render.MapErrorPayload(form, state.Errors())
		state.SetErrors(mapping.Fields)
		s.renderForm(w, r, ct, id, state, render.MergeFormErrors(formErrors, mapping.Form...), http.StatusUnprocessableEntity)
		return
	}

	status := http.StatusOK
	var entry Entry
	if id == "" {
		entry = s.store.create(ct.UID, data)
		status = http.StatusCreated
	} else {
		entry, _ = s.store.update(ct.UID, id, data)
	}
	s.logger.Info().Str("contentType", ct.UID).Str("entry", entry.ID).Msg("entry saved")

	if htmlForm {
		http.Redirect(w, r, "/forms/"+ct.FormID()+"?entry="+url.QueryEscape(entry.ID), http.StatusSeeOther)
		return
	}
	w.Header().Set("Location", ct.Endpoint()+"/"+entry.ID)
	writeJSON(w, status, map[string]any{"data": entry})
}

// entryFromForm converts posted form values to an entry using the field
// types. Empty values are left out so required checks apply; values that do
// not parse are kept as strings for the validator to report.
func entryFromForm(form model.FormModel, values url.Values) map[string]any {
	entry := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		raw, ok := values[field.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		// checkboxes post a hidden "false" before the checked "true"
		value := raw[len(raw)-1]

		switch field.Type {
		case model.FieldTypeBoolean:
			entry[field.Name] = value == "true" || value == "on"
			continue
		case model.FieldTypeInteger:
			if strings.TrimSpace(value) == "" {
				continue
			}
			if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
				entry[field.Name] = n
				continue
			}
		case model.FieldTypeNumber:
			if strings.TrimSpace(value) == "" {
				continue
			}
			if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				entry[field.Name] = n
				continue
			}
		case model.FieldTypeObject:
			var decoded any
			if err := json.Unmarshal([]byte(value), &decoded); err == nil {
				entry[field.Name] = decoded
				continue
			}
		}

		if value == "" {
			continue
		}
		if field.Format == "date-time" {
			value = normalizeDateTime(value)
		}
		entry[field.Name] = value
	}
	return entry
}

// normalizeDateTime turns a datetime-local control value into RFC 3339.
func normalizeDateTime(value string) string {
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return value
	}
	if parsed, err := time.Parse(datetimeLocalLayout, value); err == nil {
		return parsed.UTC().Format(time.RFC3339)
	}
	return value
}

const maxFormMemory = 8 << 20

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}
