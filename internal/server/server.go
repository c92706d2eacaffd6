// Package server exposes stored datasets as a read-only HTTP API.
//
// Every dataset route returns one server-driven page: filters, sort and page
// window are applied by the store in SQL. Requests are authenticated once by
// middleware and checked against a single authz.Policy.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/roach88/shiftgrid/internal/authz"
	"github.com/roach88/shiftgrid/internal/config"
	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/querysql"
	"github.com/roach88/shiftgrid/internal/record"
	"github.com/roach88/shiftgrid/internal/store"
)

// MaxPageSize caps the page_size query parameter.
const MaxPageSize = 500

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Reader is the read side of the snapshot store.
type Reader interface {
	Snapshot(ctx context.Context, dataset string) (store.SnapshotInfo, error)
	LoadRecords(ctx context.Context, dataset string) ([]record.Record, error)
	QueryPage(ctx context.Context, req querysql.Request) (store.Page, error)
}

// Server serves dataset pages.
type Server struct {
	store           Reader
	tables          *config.File
	policy          authz.Policy
	logger          *slog.Logger
	defaultPageSize int
	router          *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithTables supplies table definitions. Datasets without a definition get
// columns inferred from their records.
func WithTables(f *config.File) Option {
	return func(s *Server) { s.tables = f }
}

// WithPolicy replaces authz.DefaultPolicy.
func WithPolicy(p authz.Policy) Option {
	return func(s *Server) { s.policy = p }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithDefaultPageSize sets the page size used when neither the request nor
// the table definition names one.
func WithDefaultPageSize(n int) Option {
	return func(s *Server) { s.defaultPageSize = n }
}

// New creates a Server reading from st.
func New(st Reader, opts ...Option) *Server {
	s := &Server{
		store:           st,
		tables:          &config.File{},
		policy:          authz.DefaultPolicy(),
		logger:          slog.Default(),
		defaultPageSize: grid.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tables == nil {
		s.tables = &config.File{}
	}
	if s.defaultPageSize <= 0 {
		s.defaultPageSize = grid.DefaultPageSize
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.authenticate)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/{dataset}/columns", s.handleColumns).Methods(http.MethodGet)
	r.HandleFunc("/{dataset}", s.handlePage).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// The listening address is logged once the socket is bound.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
