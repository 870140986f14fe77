// Package server exposes strategy decisions and profile management over HTTP
// and websockets.
package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lox/pushfold/decision"
	"github.com/lox/pushfold/internal/profile"
	"github.com/lox/pushfold/strategy"
)

const maxBodyBytes = 2 << 20

// Server serves decisions against the table published in a holder.
type Server struct {
	cfg      *Config
	store    *profile.Store
	holder   *strategy.Holder
	rng      decision.Source
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	schema   *jsonschema.Schema

	// mu serializes profile selection and uploads.
	mu sync.Mutex
}

// New returns a server. rng must be safe for concurrent use.
func New(cfg *Config, store *profile.Store, holder *strategy.Holder, rng decision.Source, logger zerolog.Logger) (*Server, error) {
	schema, err := compileDecideSchema()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		holder: holder,
		rng:    rng,
		logger: logger.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		schema: schema,
	}, nil
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors)
	r.Use(limitBody)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/decide", s.handleDecide)
		r.Get("/profiles", s.handleProfiles)
		r.Post("/profiles/select", s.handleSelect)
		r.Post("/upload", s.handleUpload)
		r.Get("/current", s.handleCurrent)
		r.Get("/ws", s.handleWebSocket)
	})
	return r
}

// resolver returns a resolver over the table active right now, with the
// entry it was built from.
func (s *Server) resolver() (*decision.Resolver, *strategy.Active) {
	active := s.holder.Current()
	var table *strategy.Table
	if active != nil {
		table = active.Table
	}
	return decision.NewResolver(table, s.rng), active
}

func (s *Server) activeName() string {
	if a := s.holder.Current(); a != nil {
		return a.Name
	}
	return ""
}

// requestLogger logs each request with an id, status and duration. The
// scoped logger is stored in the request context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		logger := s.logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		w.Header().Set("X-Request-Id", requestID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Info().
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}
