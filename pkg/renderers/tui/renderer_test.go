package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-quillfield/pkg/formstate"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/render"
	"github.com/goliatone/go-quillfield/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	editors      []string
	passwords    []string
	infoMessages []string
	editorCfgs   []EditorConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	editorPos    int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Editor(_ context.Context, cfg EditorConfig) (string, error) {
	s.editorCfgs = append(s.editorCfgs, cfg)
	if s.editorPos >= len(s.editors) {
		return "", errors.New("no editor scripted")
	}
	val := s.editors[s.editorPos]
	s.editorPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func articleForm() model.FormModel {
	return model.FormModel{
		ID: "api.article.article",
		Fields: []model.Field{
			{Name: "title", Type: model.FieldTypeString, Label: "Title", Required: true, UIHints: map[string]string{"maxLength": "5"}},
			{Name: "body", Type: model.FieldTypeString, Label: "Body", Metadata: map[string]string{model.MetadataCustomField: widgets.QuillFieldUID}},
			{Name: "views", Type: model.FieldTypeInteger, Label: "Views"},
			{Name: "featured", Type: model.FieldTypeBoolean, Label: "Featured"},
			{Name: "status", Type: model.FieldTypeString, Label: "Status", Enum: []any{"draft", "published"}},
		},
	}
}

func TestRender_CollectsEveryField(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Hello", "12"},
		editors:   []string{"<p>Body</p>"},
		confirm:   []bool{true},
		selectIdx: []int{1},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), articleForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"title":    "Hello",
		"body":     "<p>Body</p>",
		"views":    float64(12),
		"featured": true,
		"status":   "published",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.editorCfgs) != 1 || driver.editorCfgs[0].FileName != "*.html" {
		t.Fatalf("quill field should open the editor prompt, got %+v", driver.editorCfgs)
	}
}

func TestRender_RetriesInvalidAnswers(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Too long", "Fine", "abc", "3"},
		editors:   []string{""},
		confirm:   []bool{false},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "x "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if _, err := r.Render(context.Background(), articleForm(), render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{
		"x Invalid title: required",
		"x Invalid title: max length 5",
		`x Invalid views: "abc" is not an integer`,
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	_, err = r.Render(context.Background(), articleForm(), render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestCollect_PrefillAndServerErrors(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Hi", ""},
		editors:   []string{"<p>new</p>"},
		confirm:   []bool{false},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	state := formstate.New(
		map[string]any{"body": "<p>old</p>", "views": int64(4)},
		map[string][]string{"body": {"property \"body\" is missing"}},
	)

	values, err := r.Collect(context.Background(), articleForm(), state)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if driver.editorCfgs[0].Default != "<p>old</p>" {
		t.Fatalf("editor should be prefilled, got %q", driver.editorCfgs[0].Default)
	}
	if values["body"] != "<p>new</p>" || values["views"] != int64(4) {
		t.Fatalf("unexpected values %#v", values)
	}
	if len(driver.infoMessages) == 0 || !strings.Contains(driver.infoMessages[0], `Body: property "body" is missing`) {
		t.Fatalf("server error should be shown before the prompt, got %v", driver.infoMessages)
	}
	if state.FieldError("body") != "" {
		t.Fatalf("answering should clear the field error")
	}
}

func TestRender_PrettyOutputFollowsFieldOrder(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Hello", ""},
		editors:   []string{""},
		confirm:   []bool{true},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), articleForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "title=Hello\nfeatured=true\nstatus=draft\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Hello", ""},
		editors:   []string{""},
		confirm:   []bool{false},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver), WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
		values["locale"] = "en"
		return values, nil
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), articleForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `"locale":"en"`) {
		t.Fatalf("transformer output missing: %s", out)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), articleForm(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error to propagate")
	}
}

func TestCollect_QuillDefaultSeedsEditor(t *testing.T) {
	driver := &stubDriver{editors: []string{"<p>Intro</p><p>More</p>"}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := model.FormModel{Fields: []model.Field{{
		Name:     "body",
		Type:     model.FieldTypeString,
		Default:  "<p>Intro</p>",
		Metadata: map[string]string{model.MetadataCustomField: widgets.QuillFieldUID},
	}}}
	state := formstate.New(nil, nil)
	var changes []string
	state.Subscribe(func(name, value string) { changes = append(changes, name+"="+value) })

	values, err := r.Collect(context.Background(), form, state)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if driver.editorCfgs[0].Default != "<p>Intro</p>" {
		t.Fatalf("editor should start from the default, got %q", driver.editorCfgs[0].Default)
	}
	if diff := cmp.Diff([]string{"body=<p>Intro</p><p>More</p>"}, changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if values["body"] != "<p>Intro</p><p>More</p>" {
		t.Fatalf("unexpected values %#v", values)
	}
}
