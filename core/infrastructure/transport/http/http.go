package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	httpmiddleware "github.com/hyperterse/sqlgeneric/core/infrastructure/transport/http/middleware"
)

// Options configures the HTTP server
type Options struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	options Options
}

// NewServer creates a new HTTP server
func NewServer(options Options) *Server {
	if options.Addr == "" {
		options.Addr = ":8080"
	}
	if len(options.CORSOrigins) == 0 {
		options.CORSOrigins = []string{"*"}
	}
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = 15 * time.Second
	}

	r := chi.NewRouter()

	// Add core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.RequestContext)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: options.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Use(httpmiddleware.Tracing)
	r.Use(httpmiddleware.Metrics)

	// The pipeline ignores caller cancellation, so there is no write timeout
	server := &http.Server{
		Addr:              options.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		router:  r,
		server:  server,
		options: options,
	}
}

// Router returns the chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start listens on the configured address and serves until Stop is called
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop is called. It returns nil after a graceful
// stop, including a stop that happened before Serve was called.
func (s *Server) Serve(ln net.Listener) error {
	log := logging.New("http")

	log.Successf("HTTP server listening on http://%s", ln.Addr())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("HTTP server error: %v", err)
		return err
	}
	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop() error {
	log := logging.New("http")
	log.Infof("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
		if closeErr := s.server.Close(); closeErr != nil {
			log.Errorf("Error force closing HTTP server: %v", closeErr)
		}
		return err
	}

	log.Infof("HTTP server stopped")
	return nil
}
