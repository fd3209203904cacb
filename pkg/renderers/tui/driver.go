package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a single-line prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// ConfirmConfig describes a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig describes a pick-one prompt. DefaultIndex outside Options
// means no default.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
}

// TextAreaConfig describes a multi-line prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// EditorConfig describes a prompt answered in $EDITOR. FileName is the
// temp file pattern, which decides the editor's syntax mode.
type EditorConfig struct {
	Message  string
	Default  string
	Help     string
	FileName string
}

// PromptDriver asks the questions the renderer needs answered.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Editor(ctx context.Context, cfg EditorConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// surveyDriver prompts on the controlling terminal.
type surveyDriver struct {
	out io.Writer
}

func newSurveyDriver() (PromptDriver, error) {
	return surveyDriver{out: os.Stdout}, nil
}

// askOne runs prompt unless ctx is already done. Ctrl+C becomes ErrAborted.
func askOne[T any](ctx context.Context, prompt survey.Prompt) (T, error) {
	var answer T
	if err := ctx.Err(); err != nil {
		return answer, err
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			err = ErrAborted
		}
		return answer, err
	}
	return answer, nil
}

func (surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	return askOne[string](ctx, &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default})
}

func (surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	answer, err := askOne[string](ctx, &survey.Password{Message: cfg.Message, Help: cfg.Help})
	if err == nil && answer == "" {
		answer = cfg.Default
	}
	return answer, err
}

func (surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	return askOne[bool](ctx, &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default})
}

func (surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: cfg.Message, Help: cfg.Help, Options: cfg.Options}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	answer, err := askOne[string](ctx, prompt)
	if err != nil {
		return 0, err
	}
	return slices.Index(cfg.Options, answer), nil
}

func (surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	return askOne[string](ctx, &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default})
}

func (surveyDriver) Editor(ctx context.Context, cfg EditorConfig) (string, error) {
	return askOne[string](ctx, &survey.Editor{
		Message:       cfg.Message,
		Help:          cfg.Help,
		Default:       cfg.Default,
		FileName:      cfg.FileName,
		AppendDefault: true,
		HideDefault:   true,
	})
}

func (d surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
