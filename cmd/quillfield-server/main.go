package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-quillfield/components/quill"
	"github.com/goliatone/go-quillfield/internal/logging"
	"github.com/goliatone/go-quillfield/internal/server"
	"github.com/goliatone/go-quillfield/pkg/schema"
)

type serverConfig struct {
	addr         string
	settings     string
	contentTypes []string
	locales      []string
	logLevel     string
	pretty       bool
	cors         bool
	watch        bool
}

func main() {
	// .env is optional; flags still win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "quillfield-server: load .env: %v\n", err)
	}

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quillfield-server: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.logLevel),
		Output: os.Stderr,
		Pretty: cfg.pretty,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// parseFlags reads flags, taking defaults from QUILLFIELD_* variables.
func parseFlags(fs *flag.FlagSet, args []string, getenv func(string) string) (serverConfig, error) {
	env := func(key, fallback string) string {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			return value
		}
		return fallback
	}

	var cfg serverConfig
	var contentTypes, locales string
	fs.StringVar(&cfg.addr, "addr", env("QUILLFIELD_ADDR", ":8080"), "listen address")
	fs.StringVar(&cfg.settings, "settings", env("QUILLFIELD_SETTINGS", ""), "editor settings file (JSON or YAML)")
	fs.StringVar(&contentTypes, "content-type", env("QUILLFIELD_CONTENT_TYPES", ""), "content-type schema file(s), comma separated")
	fs.StringVar(&locales, "locales", env("QUILLFIELD_LOCALES", "en,fr"), "supported locales, the first is the fallback")
	fs.StringVar(&cfg.logLevel, "log-level", env("QUILLFIELD_LOG_LEVEL", "info"), "log level")
	fs.BoolVar(&cfg.pretty, "pretty", false, "human readable logs")
	fs.BoolVar(&cfg.cors, "cors", true, "enable CORS")
	fs.BoolVar(&cfg.watch, "watch", false, "reload the settings file when it changes")
	if err := fs.Parse(args); err != nil {
		return serverConfig{}, err
	}

	cfg.contentTypes = splitList(contentTypes)
	cfg.locales = splitList(locales)
	if len(cfg.contentTypes) == 0 {
		return serverConfig{}, errors.New("-content-type is required")
	}
	if cfg.watch && cfg.settings == "" {
		return serverConfig{}, errors.New("-watch needs -settings")
	}
	return cfg, nil
}

func run(ctx context.Context, cfg serverConfig, logger zerolog.Logger) error {
	settings := quill.Settings{}
	if cfg.settings != "" {
		data, err := os.ReadFile(cfg.settings)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		if settings, err = quill.ParseSettings(data, cfg.settings); err != nil {
			return err
		}
	}

	loader := schema.NewLoader()
	cts := make([]schema.ContentType, 0, len(cfg.contentTypes))
	for _, path := range cfg.contentTypes {
		doc, err := loader.Load(ctx, schema.SourceFromFile(path))
		if err != nil {
			return err
		}
		cts = append(cts, doc.ContentType)
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = cfg.addr
	srvCfg.EnableCORS = cfg.cors
	srvCfg.Locales = cfg.locales

	srv, err := server.New(ctx, srvCfg, settings, logger, cts...)
	if err != nil {
		return err
	}
	if cfg.watch {
		if err := srv.WatchSettings(ctx, cfg.settings); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.addr).Int("contentTypes", len(cts)).Msg("listening")
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
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
