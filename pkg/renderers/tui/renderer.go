package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-quillfield/components/quill"
	"github.com/goliatone/go-quillfield/pkg/formstate"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/render"
	"github.com/goliatone/go-quillfield/pkg/widgets"
)

// Renderer implements render.Renderer for terminal-driven sessions: every
// field is prompted for in order and the collected entry is serialized.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "! "},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render prompts for every field of form and serializes the answers.
// opts.Values prefill the prompts and opts.Errors are shown before the field
// they belong to.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, formstate.New(opts.Values, opts.Errors))
	if err != nil {
		return nil, err
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(form, values)
}

// Collect prompts for every field, writing each answer into state, and
// returns the resulting values.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, state *formstate.State) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if state == nil {
		state = formstate.New(nil, nil)
	}

	for _, field := range form.Fields {
		if field.ReadOnly {
			continue
		}
		for _, message := range state.ErrorsFor(field.Name) {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+displayLabel(field)+": "+message)
		}
		if err := r.promptField(ctx, field, state); err != nil {
			return nil, err
		}
	}
	return state.Values(), nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *formstate.State) error {
	switch {
	case field.Type == model.FieldTypeBoolean:
		return r.promptBoolean(ctx, field, state)
	case field.Type == model.FieldTypeInteger, field.Type == model.FieldTypeNumber:
		return r.promptNumber(ctx, field, state)
	case len(field.Enum) > 0:
		return r.promptEnum(ctx, field, state)
	default:
		return r.promptString(ctx, field, state)
	}
}

func (r *Renderer) promptString(ctx context.Context, field model.Field, state *formstate.State) error {
	if widgets.IsQuillField(field) {
		return r.promptQuill(ctx, field, state)
	}
	label := displayLabel(field)
	help := displayHelp(field)
	rules := collectValidationRules(field)
	defaultVal := defaultStringValue(state, field)

	return r.retry(ctx, field, func() error {
		var (
			response string
			err      error
		)
		switch {
		case field.Format == "password":
			response, err = r.driver.Password(ctx, InputConfig{Message: label, Default: defaultVal, Help: help})
		case field.Type == model.FieldTypeObject || field.Hint("input") == "textarea":
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: defaultVal, Help: help})
		default:
			response, err = r.driver.Input(ctx, InputConfig{Message: label, Default: defaultVal, Help: help})
		}
		if err != nil {
			return err
		}
		if err := rules.validateString(response); err != nil {
			return invalid(err)
		}
		if strings.TrimSpace(response) == "" {
			if _, prefilled := state.Values()[field.Name]; !prefilled {
				return nil
			}
		}
		state.OnChange(field.Name, response)
		return nil
	})
}

// promptQuill edits markup in $EDITOR through an adapter bound to state. The
// buffer starts from the adapter's shadow value and an accepted answer is
// forwarded to the state in full.
func (r *Renderer) promptQuill(ctx context.Context, field model.Field, state *formstate.State) error {
	adapter := quill.Bind(state, field.Name)
	if _, prefilled := state.Values()[field.Name]; !prefilled && field.Default != nil {
		adapter.Sync(fmt.Sprint(field.Default))
	}
	rules := collectValidationRules(field)

	return r.retry(ctx, field, func() error {
		response, err := r.driver.Editor(ctx, EditorConfig{
			Message:  displayLabel(field),
			Default:  adapter.Value(),
			Help:     displayHelp(field),
			FileName: "*.html",
		})
		if err != nil {
			return err
		}
		if err := rules.validateString(response); err != nil {
			return invalid(err)
		}
		if strings.TrimSpace(response) == "" {
			if _, prefilled := state.Values()[field.Name]; !prefilled {
				return nil
			}
		}
		adapter.HandleChange(response)
		return nil
	})
}

func (r *Renderer) promptBoolean(ctx context.Context, field model.Field, state *formstate.State) error {
	defaultVal := state.FieldValue(field.Name) == "true"
	if _, ok := state.Values()[field.Name]; !ok {
		defaultVal, _ = field.Default.(bool)
	}
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(field),
		Default: defaultVal,
		Help:    displayHelp(field),
	})
	if err != nil {
		return err
	}
	state.Set(field.Name, resp)
	return nil
}

func (r *Renderer) promptNumber(ctx context.Context, field model.Field, state *formstate.State) error {
	label := displayLabel(field)
	help := displayHelp(field)
	rules := collectValidationRules(field)
	defaultStr := defaultStringValue(state, field)

	return r.retry(ctx, field, func() error {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: defaultStr, Help: help})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if rules.required {
				return invalid(errors.New("required"))
			}
			return nil
		}

		if field.Type == model.FieldTypeInteger {
			parsed, err := strconv.ParseInt(input, 10, 64)
			if err != nil {
				return invalid(fmt.Errorf("%q is not an integer", input))
			}
			state.Set(field.Name, parsed)
			return nil
		}
		parsed, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return invalid(fmt.Errorf("%q is not a number", input))
		}
		state.Set(field.Name, parsed)
		return nil
	})
}

func (r *Renderer) promptEnum(ctx context.Context, field model.Field, state *formstate.State) error {
	options := stringifyEnum(field.Enum)
	defaultIdx := slices.Index(options, defaultStringValue(state, field))

	return r.retry(ctx, field, func() error {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(field),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return invalid(errors.New("unknown selection"))
		}
		state.OnChange(field.Name, options[idx])
		return nil
	})
}

type invalidAnswer struct{ err error }

func (e invalidAnswer) Error() string { return e.err.Error() }

func invalid(err error) error { return invalidAnswer{err: err} }

// retry re-runs ask while it reports an invalid answer, printing the reason.
func (r *Renderer) retry(ctx context.Context, field model.Field, ask func() error) error {
	for attempt := 1; ; attempt++ {
		err := ask()
		var bad invalidAnswer
		if !errors.As(err, &bad) {
			return err
		}
		_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, field.Name, bad.err))
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
	}
}

func (r *Renderer) serialize(form model.FormModel, values map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(form, values)), nil
	}
	return json.Marshal(values)
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if h := field.Hint("helpText"); h != "" {
		return h
	}
	return field.Description
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func defaultStringValue(state *formstate.State, field model.Field) string {
	if _, ok := state.Values()[field.Name]; ok {
		return state.FieldValue(field.Name)
	}
	if field.Default == nil {
		return ""
	}
	return fmt.Sprint(field.Default)
}

type validationRules struct {
	required bool
	maxLen   int
}

func collectValidationRules(field model.Field) validationRules {
	rules := validationRules{required: field.Required}
	if raw := field.Hint("maxLength"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			rules.maxLen = n
		}
	}
	return rules
}

func (r validationRules) validateString(value string) error {
	if r.required && strings.TrimSpace(value) == "" {
		return errors.New("required")
	}
	if r.maxLen > 0 && utf8.RuneCountInString(value) > r.maxLen {
		return fmt.Errorf("max length %d", r.maxLen)
	}
	return nil
}

func prettyPrint(form model.FormModel, values map[string]any) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(values))
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		seen[field.Name] = struct{}{}
		fmt.Fprintf(&b, "%s=%v\n", field.Name, value)
	}
	var rest []string
	for name := range values {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	for _, name := range rest {
		fmt.Fprintf(&b, "%s=%v\n", name, values[name])
	}
	return b.String()
}
