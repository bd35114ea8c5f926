// Package server exposes a form over HTTP. Every browser gets its own mounted
// form, kept in memory and driven by htmx requests from the vanilla renderer's
// markup.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/payloadschema"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
)

const (
	DefaultSessionTTL = 30 * time.Minute
	// MaxUploadBytes bounds the multipart body of photo uploads.
	MaxUploadBytes = 10 << 20
)

// Option customises a Server.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	registry    *prometheus.Registry
	basePath    string
	title       string
	sessionTTL  time.Duration
	formOptions []engine.Option
	renderer    *vanilla.Renderer
	now         func() time.Time
}

// WithLogger sets the request and session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRegistry registers metrics with registry and serves it on /metrics.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithBasePath mounts every route under path.
func WithBasePath(path string) Option {
	return func(o *options) {
		o.basePath = strings.TrimRight(strings.TrimSpace(path), "/")
	}
}

// WithTitle sets the heading of the landing page and the form.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithSessionTTL sets how long an idle session survives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.sessionTTL = ttl
		}
	}
}

// WithFormOptions forwards options to every session's form.
func WithFormOptions(opts ...engine.Option) Option {
	return func(o *options) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

// WithRenderer replaces the default vanilla renderer.
func WithRenderer(renderer *vanilla.Renderer) Option {
	return func(o *options) {
		if renderer != nil {
			o.renderer = renderer
		}
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Server serves one descriptor document to many browser sessions.
type Server struct {
	doc      descriptor.Document
	renderer *vanilla.Renderer
	schema   []byte
	store    *Store
	logger   *zap.Logger
	metrics  *Metrics
	gatherer prometheus.Gatherer
	basePath string
	title    string
	router   *chi.Mux
}

// New builds a Server for doc.
func New(doc descriptor.Document, opts ...Option) (*Server, error) {
	o := options{
		logger:     zap.NewNop(),
		sessionTTL: DefaultSessionTTL,
		title:      engine.DefaultTitle,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	if o.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		o.renderer = renderer
	}

	schema, err := payloadschema.Marshal(payloadschema.Build(doc))
	if err != nil {
		return nil, err
	}

	formOptions := append([]engine.Option{engine.WithTitle(o.title)}, o.formOptions...)
	metrics := NewMetrics(o.registry)

	s := &Server{
		doc:      doc,
		renderer: o.renderer,
		schema:   schema,
		logger:   o.logger,
		metrics:  metrics,
		gatherer: o.registry,
		basePath: o.basePath,
		title:    o.title,
	}
	s.store = newStore(o.sessionTTL, func() *engine.Form {
		return engine.New(doc, formOptions...)
	}, o.logger, metrics, o.now, s.cookiePath())
	s.setupRouter()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Sessions exposes the session store so callers can run its sweeper.
func (s *Server) Sessions() *Store {
	return s.store
}

// Close unmounts every live form.
func (s *Server) Close() {
	s.store.Close()
}

func (s *Server) cookiePath() string {
	if s.basePath == "" {
		return "/"
	}
	return s.basePath
}

func (s *Server) url(path string) string {
	return s.basePath + path
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	routes := chi.NewRouter()
	routes.Get("/health", s.handleHealth)
	routes.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	routes.Get("/schema.json", s.handleSchema)
	routes.Handle("/assets/*", http.StripPrefix(s.url("/assets/"), http.FileServer(http.FS(vanilla.AssetsFS()))))

	routes.Get("/", s.handleLanding)
	routes.Route("/form", func(r chi.Router) {
		r.Use(s.metricsMiddleware)
		r.Get("/", s.handleForm)
		r.Delete("/", s.handleUnmount)
		r.Post("/submit", s.handleSubmit)
		r.Post("/pointerdown", s.handlePointerDown)

		r.Route("/fields/{id}", func(r chi.Router) {
			r.Post("/value", s.handleValue)
			r.Post("/comment", s.handleComment)
			r.Post("/photo", s.handlePhoto)
			r.Post("/dropdown", s.handleDropdown)
			r.Post("/options/{key}", s.handleOption)
			r.Post("/help", s.handleHelp)
			r.Post("/help/key", s.handleHelpKey)
		})
	})

	if s.basePath == "" {
		r.Mount("/", routes)
	} else {
		r.Mount(s.basePath, routes)
	}
	s.router = r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNoWidget),
		errors.Is(err, engine.ErrUnknownOption),
		errors.Is(err, engine.ErrInvalidDateTime):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, engine.ErrNotMounted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
