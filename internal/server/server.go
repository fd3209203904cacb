// Package server provides the demo admin HTTP server: it serves the quill
// editor config, renders content-type forms with the quill field and round
// trips submissions through the schema validator.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/goliatone/go-quillfield"
	"github.com/goliatone/go-quillfield/components/quill"
	"github.com/goliatone/go-quillfield/internal/logging"
	"github.com/goliatone/go-quillfield/pkg/i18n"
	"github.com/goliatone/go-quillfield/pkg/model"
	vanilla "github.com/goliatone/go-quillfield/pkg/renderers/vanilla"
	"github.com/goliatone/go-quillfield/pkg/schema"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	Title          string
	EnableCORS     bool
	AllowedOrigins []string
	// Locales are the supported UI locales; the first one is the fallback.
	Locales      []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:           ":8080",
		Title:          "Content API",
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		Locales:        []string{"en"},
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// Server is the HTTP server.
type Server struct {
	config       *Config
	router       *chi.Mux
	httpSrv      *http.Server
	logger       zerolog.Logger
	contentTypes []schema.ContentType
	store        *entryStore
	matcher      language.Matcher

	mu      sync.RWMutex
	runtime *runtime
}

// runtime is everything derived from the editor settings. Reload swaps it as
// a whole so requests never see a half-built plugin.
type runtime struct {
	plugin     *quillfield.Plugin
	admin      *quillfield.Admin
	catalog    *i18n.Catalog
	renderer   *vanilla.Renderer
	validator  *schema.Validator
	forms      map[string]model.FormModel
	configMux  *http.ServeMux
	configPath string
}

// New builds a server for cts using settings for the quill editor.
func New(ctx context.Context, cfg *Config, settings quill.Settings, logger zerolog.Logger, cts ...schema.ContentType) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(cfg.Locales) == 0 {
		cfg.Locales = []string{"en"}
	}

	tags := make([]language.Tag, 0, len(cfg.Locales))
	for _, locale := range cfg.Locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("server: locale %q: %w", locale, err)
		}
		tags = append(tags, tag)
	}

	s := &Server{
		config:       cfg,
		router:       chi.NewRouter(),
		logger:       logger,
		contentTypes: cts,
		store:        newEntryStore(),
		matcher:      language.NewMatcher(tags),
	}
	rt, err := s.buildRuntime(ctx, settings)
	if err != nil {
		return nil, err
	}
	s.runtime = rt

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Reload rebuilds the plugin, renderer and forms from settings. The previous
// runtime stays active when the new settings are rejected.
func (s *Server) Reload(ctx context.Context, settings quill.Settings) error {
	rt, err := s.buildRuntime(ctx, settings)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.runtime = rt
	s.mu.Unlock()
	s.logger.Info().Str("theme", rt.plugin.Component().Config().Theme).Msg("editor settings reloaded")
	return nil
}

func (s *Server) current() *runtime {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runtime
}

func (s *Server) buildRuntime(ctx context.Context, settings quill.Settings) (*runtime, error) {
	plugin := quillfield.New(quillfield.WithSettings(settings), quillfield.WithLogger(s.logger))
	admin := quillfield.NewAdmin()
	if err := plugin.Register(admin); err != nil {
		return nil, err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("server: bootstrap plugins: %w", err)
	}

	catalog := plugin.Catalog(ctx, s.config.Locales...)
	renderer, err := plugin.Renderer(vanilla.WithTranslator(catalog))
	if err != nil {
		return nil, fmt.Errorf("server: renderer: %w", err)
	}

	validator := schema.NewValidator(admin.Fields)
	forms := make(map[string]model.FormModel, len(s.contentTypes))
	for _, ct := range s.contentTypes {
		if err := validator.ValidateContentType(ct); err != nil {
			return nil, fmt.Errorf("server: %s: %w", ct.UID, err)
		}
		form, err := schema.FormModel(ct, admin.Fields, nil)
		if err != nil {
			return nil, fmt.Errorf("server: %s: %w", ct.UID, err)
		}
		forms[ct.FormID()] = form
	}

	configMux := http.NewServeMux()
	configPath, err := plugin.Component().RegisterRoutes(configMux, "")
	if err != nil {
		return nil, err
	}

	return &runtime{
		plugin:     plugin,
		admin:      admin,
		catalog:    catalog,
		renderer:   renderer,
		validator:  validator,
		forms:      forms,
		configMux:  configMux,
		configPath: configPath,
	}, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(middleware.Recoverer)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"Location", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	s.router.Use(methodOverride)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
