package main

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-quillfield/components/quill"
	"github.com/goliatone/go-quillfield/pkg/renderers/tui"
)

// asker runs survey prompts; tests swap it for a scripted implementation.
type asker interface {
	ask(prompt survey.Prompt, response any) error
	driver() tui.PromptDriver
}

type surveyAsker struct{}

func (surveyAsker) ask(prompt survey.Prompt, response any) error {
	return survey.AskOne(prompt, response)
}

// driver returns nil so the TUI renderer keeps its survey driver.
func (surveyAsker) driver() tui.PromptDriver { return nil }

// promptSettings asks for each override, starting from the values already in
// settings. An empty answer leaves the slot on the default.
func promptSettings(a asker, settings quill.Settings) (quill.Settings, error) {
	theme := settings.Theme
	if theme == "" {
		theme = quill.ThemeSnow
	}
	if err := a.ask(&survey.Select{
		Message: "Editor theme",
		Options: []string{quill.ThemeSnow, quill.ThemeBubble},
		Default: theme,
	}, &theme); err != nil {
		return settings, err
	}
	settings.Theme = theme

	lists := []struct {
		message string
		help    string
		current string
		apply   func(values []string)
	}{
		{
			message: "Colors",
			help:    "Comma separated swatches; drives both text and background color",
			current: strings.Join(settings.CustomColors, ", "),
			apply:   func(values []string) { settings.CustomColors = values },
		},
		{
			message: "Fonts",
			help:    `Comma separated font names; "default" keeps the editor font`,
			current: joinChoices(settings.CustomFonts),
			apply:   func(values []string) { settings.CustomFonts = parseChoices(values) },
		},
		{
			message: "Font sizes",
			help:    `Comma separated sizes; "default" keeps the editor size`,
			current: joinChoices(settings.CustomFontSizes),
			apply:   func(values []string) { settings.CustomFontSizes = parseChoices(values) },
		},
		{
			message: "Formats",
			help:    "Comma separated formats the editor accepts; replaces the defaults",
			current: strings.Join(settings.CustomFormats, ", "),
			apply:   func(values []string) { settings.CustomFormats = values },
		},
	}
	for _, list := range lists {
		var answer string
		if err := a.ask(&survey.Input{Message: list.message, Help: list.help, Default: list.current}, &answer); err != nil {
			return settings, err
		}
		if values := splitList(answer); len(values) > 0 {
			list.apply(values)
		}
	}
	return settings, nil
}

func parseChoices(values []string) []quill.Choice {
	out := make([]quill.Choice, 0, len(values))
	for _, value := range values {
		switch strings.ToLower(value) {
		case "default", "false":
			out = append(out, quill.DefaultChoice)
		default:
			out = append(out, quill.Named(value))
		}
	}
	return out
}

func joinChoices(choices []quill.Choice) string {
	parts := make([]string, 0, len(choices))
	for _, choice := range choices {
		if choice.Default {
			parts = append(parts, "default")
			continue
		}
		parts = append(parts, choice.Value)
	}
	return strings.Join(parts, ", ")
}
