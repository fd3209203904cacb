package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-quillfield"
	"github.com/goliatone/go-quillfield/components/quill"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/render"
	vanilla "github.com/goliatone/go-quillfield/pkg/renderers/vanilla"
	"github.com/goliatone/go-quillfield/pkg/renderers/tui"
	"github.com/goliatone/go-quillfield/pkg/schema"
	"github.com/goliatone/go-quillfield/pkg/validation"
	"github.com/goliatone/go-quillfield/pkg/widgets"
)

const (
	modeConfig  = "config"
	modePreview = "preview"
	modeForm    = "form"
	modeEntry   = "entry"
	modeOpenAPI = "openapi"
)

type cliConfig struct {
	mode         string
	settings     string
	contentTypes []string
	locale       string
	value        string
	output       string
	interactive  bool
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	var out io.Writer = os.Stdout
	if cfg.output != "" {
		file, err := os.Create(cfg.output)
		if err != nil {
			log.Fatalf("Failed to open output: %v", err)
		}
		defer file.Close()
		out = file
	}

	if err := run(context.Background(), cfg, surveyAsker{}, out); err != nil {
		log.Fatalf("quillfield: %v", err)
	}
	if cfg.output != "" {
		fmt.Printf("Output written to %s\n", cfg.output)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (cliConfig, error) {
	var cfg cliConfig
	var contentTypes string
	fs.StringVar(&cfg.mode, "mode", modeConfig, "what to print: config, preview, form, entry or openapi")
	fs.StringVar(&cfg.settings, "settings", "", "editor settings file (JSON or YAML)")
	fs.StringVar(&contentTypes, "content-type", "", "content-type schema file(s), comma separated")
	fs.StringVar(&cfg.locale, "locale", "en", "locale used for labels")
	fs.StringVar(&cfg.value, "value", "", "initial markup for the preview field")
	fs.StringVar(&cfg.output, "output", "", "output file (stdout if empty)")
	fs.BoolVar(&cfg.interactive, "interactive", false, "prompt for editor overrides before running")
	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	cfg.contentTypes = splitList(contentTypes)

	switch cfg.mode {
	case modeConfig, modePreview:
	case modeForm, modeEntry, modeOpenAPI:
		if len(cfg.contentTypes) == 0 {
			return cliConfig{}, fmt.Errorf("-mode=%s needs -content-type", cfg.mode)
		}
	default:
		return cliConfig{}, fmt.Errorf("unknown mode %q", cfg.mode)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg cliConfig, asker asker, out io.Writer) error {
	settings, err := loadSettings(cfg.settings)
	if err != nil {
		return err
	}
	if cfg.interactive {
		if settings, err = promptSettings(asker, settings); err != nil {
			return err
		}
	}

	plugin := quillfield.New(quillfield.WithSettings(settings))
	admin := quillfield.NewAdmin()
	if err := plugin.Register(admin); err != nil {
		return err
	}
	if err := plugin.Bootstrap(ctx); err != nil {
		return err
	}
	catalog := plugin.Catalog(ctx, "en", cfg.locale)

	switch cfg.mode {
	case modeConfig:
		return writeJSON(out, plugin.Component().Config())
	case modePreview:
		renderer, err := plugin.Renderer(vanilla.WithTranslator(catalog))
		if err != nil {
			return err
		}
		def := plugin.AdminDefinition()
		form := model.FormModel{
			ID:     "quill.preview",
			Method: "POST",
			Fields: []model.Field{{
				Name:        "content",
				Type:        model.FieldTypeString,
				Label:       def.Label(catalog, cfg.locale),
				Description: def.Description(catalog, cfg.locale),
				Metadata:    map[string]string{model.MetadataCustomField: widgets.QuillFieldUID},
			}},
		}
		html, err := renderer.Render(ctx, form, render.RenderOptions{
			Locale: cfg.locale,
			Values: map[string]any{"content": cfg.value},
		})
		if err != nil {
			return err
		}
		_, err = out.Write(html)
		return err
	}

	loader := schema.NewLoader()
	cts := make([]schema.ContentType, 0, len(cfg.contentTypes))
	for _, path := range cfg.contentTypes {
		doc, err := loader.Load(ctx, schema.SourceFromFile(path))
		if err != nil {
			return err
		}
		if err := schema.NewValidator(admin.Fields).ValidateContentType(doc.ContentType); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cts = append(cts, doc.ContentType)
	}

	switch cfg.mode {
	case modeOpenAPI:
		doc, err := schema.OpenAPIDocument(ctx, schema.DocumentInfo{}, admin.Fields, cts...)
		if err != nil {
			return err
		}
		return writeJSON(out, doc)
	case modeForm:
		form, err := schema.FormModel(cts[0], admin.Fields, nil)
		if err != nil {
			return err
		}
		renderer, err := plugin.Renderer(vanilla.WithTranslator(catalog))
		if err != nil {
			return err
		}
		html, err := renderer.Render(ctx, form, render.RenderOptions{Locale: cfg.locale})
		if err != nil {
			return err
		}
		_, err = out.Write(html)
		return err
	default:
		return collectEntry(ctx, cts[0], admin, asker, out)
	}
}

func collectEntry(ctx context.Context, ct schema.ContentType, admin *quillfield.Admin, asker asker, out io.Writer) error {
	form, err := schema.FormModel(ct, admin.Fields, nil)
	if err != nil {
		return err
	}
	renderer, err := tui.New(tui.WithPromptDriver(asker.driver()), tui.WithMaxAttempts(3))
	if err != nil {
		return err
	}
	payload, err := renderer.Render(ctx, form, render.RenderOptions{})
	if err != nil {
		return err
	}

	var entry map[string]any
	if err := json.Unmarshal(payload, &entry); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	if err := schema.NewValidator(admin.Fields).ValidateEntry(ct, entry); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			for _, issue := range verr.Result.Issues {
				fmt.Fprintf(os.Stderr, "%s: %s\n", issue.Field, issue.Message)
			}
		}
		return err
	}
	return writeJSON(out, entry)
}

func loadSettings(path string) (quill.Settings, error) {
	if strings.TrimSpace(path) == "" {
		return quill.Settings{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return quill.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return quill.ParseSettings(data, path)
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
