package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-quillfield/components/quill"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/schema"
	"github.com/goliatone/go-quillfield/pkg/testsupport"
)

func newTestServer(t *testing.T, settings quill.Settings) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Locales = []string{"en", "fr"}
	srv, err := New(context.Background(), cfg, settings, zerolog.Nop(), testsupport.LoadContentType(t, "article.json"))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// postForm submits values as a browser form would. A non-nil session cookie
// is sent along with its matching CSRF field.
func postForm(path string, values url.Values, session *http.Cookie) *http.Request {
	if session != nil {
		values.Set(csrfField, session.Value)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != nil {
		req.AddCookie(session)
	}
	return req
}

func formSession(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/forms/api.article.article", nil))
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != csrfCookie {
			continue
		}
		field := `<input type="hidden" name="_csrf" value="` + cookie.Value + `">`
		if !strings.Contains(rec.Body.String(), field) {
			t.Fatalf("form does not carry the session token:\n%s", rec.Body.String())
		}
		return cookie
	}
	t.Fatalf("form response set no %s cookie", csrfCookie)
	return nil
}

func editorTheme(t *testing.T, srv *Server) string {
	t.Helper()
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/quill/config", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("config status = %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data quill.EditorConfig `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return payload.Data.Theme
}

func TestServer_MetaRoutes(t *testing.T) {
	srv := newTestServer(t, quill.Settings{})

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/content-types", nil))
	var summaries []contentTypeSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode content types: %v", err)
	}
	want := []contentTypeSummary{{
		UID:         "api::article.article",
		DisplayName: "Article",
		Form:        "/forms/api.article.article",
		Endpoint:    "/api/articles",
	}}
	if diff := cmp.Diff(want, summaries); diff != "" {
		t.Fatalf("content types mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"x-formgen"`) {
		t.Fatalf("openapi: %d %s", rec.Code, rec.Body.String())
	}
}

func TestServer_EditorConfigFollowsReload(t *testing.T) {
	srv := newTestServer(t, quill.Settings{})
	if theme := editorTheme(t, srv); theme != quill.ThemeSnow {
		t.Fatalf("initial theme = %q", theme)
	}

	if err := srv.Reload(context.Background(), quill.Settings{Theme: quill.ThemeBubble}); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if theme := editorTheme(t, srv); theme != quill.ThemeBubble {
		t.Fatalf("reloaded theme = %q", theme)
	}
}

func TestServer_ShowFormNegotiatesLocale(t *testing.T) {
	srv := newTestServer(t, quill.Settings{})

	req := httptest.NewRequest(http.MethodGet, "/forms/api.article.article", nil)
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5")
	rec := do(t, srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, fragment := range []string{`action="/api/articles"`, `data-quill-root="true"`, `lang="fr"`, "Enregistrer"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in form:\n%s", fragment, body)
		}
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/forms/api.article.article?locale=en", nil))
	if !strings.Contains(rec.Body.String(), "Save") {
		t.Fatalf("expected english chrome:\n%s", rec.Body.String())
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/forms/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown form status = %d", rec.Code)
	}
}

func TestServer_JSONEntries(t *testing.T) {
	srv := newTestServer(t, quill.Settings{})

	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"body": "<p>x</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, srv, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid entry status = %d: %s", rec.Code, rec.Body.String())
	}
	var failure ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if failure.Error.Code != ErrCodeValidation || !strings.Contains(rec.Body.String(), `"field":"title"`) {
		t.Fatalf("unexpected error response %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"title": "Hello", "body": "<p>x</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = do(t, srv, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data Entry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if created.Data.ID == "" || rec.Header().Get("Location") != "/api/articles/"+created.Data.ID {
		t.Fatalf("unexpected created entry %#v location %q", created.Data, rec.Header().Get("Location"))
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	var listed struct {
		Data []Entry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Data) != 1 || listed.Data[0].Data["title"] != "Hello" {
		t.Fatalf("unexpected list %#v", listed.Data)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/articles/"+created.Data.ID, strings.NewReader(`{"title": "Bye", "body": "<p>y</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	if rec = do(t, srv, req); rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/articles/"+created.Data.ID, nil))
	if !strings.Contains(rec.Body.String(), `"title":"Bye"`) {
		t.Fatalf("update not stored: %s", rec.Body.String())
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/articles/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing entry status = %d", rec.Code)
	}
}

func TestServer_FormRoundTrip(t *testing.T) {
	srv := newTestServer(t, quill.Settings{})
	session := formSession(t, srv)

	rec := do(t, srv, postForm("/api/articles", url.Values{"body": {"<p>Draft</p>"}}, session))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid form status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, fragment := range []string{"quillfield-field--error", `role="alert"`, "<p>Draft</p></div>"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in re-rendered form:\n%s", fragment, body)
		}
	}

	rec = do(t, srv, postForm("/api/articles", url.Values{
		"title":  {"Hello"},
		"body":   {"<p>Body</p>"},
		"views":  {"3"},
		"status": {"published"},
	}, session))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil || location.Path != "/forms/api.article.article" {
		t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
	}
	id := location.Query().Get("entry")

	stored, ok := srv.store.get("api::article.article", id)
	if !ok {
		t.Fatalf("entry %q not stored", id)
	}
	if diff := cmp.Diff(map[string]any{"title": "Hello", "body": "<p>Body</p>", "views": int64(3), "status": "published"}, stored.Data); diff != "" {
		t.Fatalf("stored entry mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, location.String(), nil))
	body = rec.Body.String()
	for _, fragment := range []string{`action="/api/articles/` + id + `"`, `name="_method" value="PUT"`, "<p>Body</p></div>"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in edit form:\n%s", fragment, body)
		}
	}

	rec = do(t, srv, postForm("/api/articles/"+id, url.Values{
		"_method": {"PUT"},
		"title":   {"Updated"},
		"body":    {"<p>Body</p>"},
	}, session))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ = srv.store.get("api::article.article", id)
	if stored.Data["title"] != "Updated" {
		t.Fatalf("update not applied: %#v", stored.Data)
	}
}

func TestServer_FormRequiresCSRFToken(t *testing.T) {
	srv := newTestServer(t, quill.Settings{})
	values := url.Values{"title": {"Hello"}, "body": {"<p>Body</p>"}}

	rec := do(t, srv, postForm("/api/articles", values, nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing token status = %d", rec.Code)
	}

	session := formSession(t, srv)
	values.Set(csrfField, "forged")
	req := postForm("/api/articles", values, nil)
	req.AddCookie(session)
	rec = do(t, srv, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("forged token status = %d", rec.Code)
	}
	if got := len(srv.store.list("api::article.article")); got != 0 {
		t.Fatalf("rejected posts stored %d entries", got)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, quill.Settings{})

	req := httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := do(t, srv, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestEntryFromForm(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{
		{Name: "published", Type: model.FieldTypeBoolean},
		{Name: "views", Type: model.FieldTypeInteger},
		{Name: "rating", Type: model.FieldTypeNumber},
		{Name: "meta", Type: model.FieldTypeObject},
		{Name: "at", Type: model.FieldTypeString, Format: "date-time"},
		{Name: "subtitle", Type: model.FieldTypeString},
	}}
	got := entryFromForm(form, url.Values{
		"published": {"false", "true"},
		"views":     {"many"},
		"rating":    {"4.5"},
		"meta":      {`{"a":1}`},
		"at":        {"2024-03-01T10:30"},
		"subtitle":  {""},
		"_method":   {"PUT"},
	})
	want := map[string]any{
		"published": true,
		"views":     "many",
		"rating":    4.5,
		"meta":      map[string]any{"a": float64(1)},
		"at":        "2024-03-01T10:30:00Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_WatchSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.yaml")
	if err := os.WriteFile(path, []byte("theme: snow\n"), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	srv := newTestServer(t, quill.Settings{Theme: quill.ThemeSnow})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.WatchSettings(ctx, path); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := os.WriteFile(path, []byte("theme: bubble\n"), 0o600); err != nil {
		t.Fatalf("rewrite settings: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for editorTheme(t, srv) != quill.ThemeBubble {
		if time.Now().After(deadline) {
			t.Fatalf("settings change was not picked up")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestServer_RejectsUnknownCustomField(t *testing.T) {
	ct, err := schema.ParseContentType([]byte(`{"uid": "api::x.x", "attributes": {"body": {"type": "customField", "customField": "plugin::other.field"}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := New(context.Background(), nil, quill.Settings{}, zerolog.New(io.Discard), ct); err == nil {
		t.Fatalf("expected unknown custom field to fail")
	}
}
