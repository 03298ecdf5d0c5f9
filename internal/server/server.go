// Package server hosts the tool registry over HTTP: the MCP endpoint plus a
// small JSON API for health checks and direct tool calls.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/simonyos/toolrunner/internal/tools"
)

const shutdownTimeout = 10 * time.Second

// Server serves a tool registry
type Server struct {
	reg  *tools.Registry
	http *http.Server
}

// New builds the router. mcpHandler is mounted at mcpPath when non-nil.
func New(addr string, reg *tools.Registry, mcpPath string, mcpHandler http.Handler) *Server {
	s := &Server{reg: reg}

	r := chi.NewRouter()
	r.Use(Recovery)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logging)

	r.Get("/health", s.health)
	r.Route("/api/v1/tools", func(r chi.Router) {
		r.Get("/", s.listTools)
		r.Post("/{name}", s.callTool)
	})
	if mcpHandler != nil {
		r.Handle(mcpPath, mcpHandler)
	}

	s.http = &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log.Info().Str("addr", ln.Addr().String()).Int("tools", s.reg.Len()).Msg("server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tools":  s.reg.Names(),
	})
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.List())
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.reg.Get(name); !ok {
		writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}

	args := map[string]any{}
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		dec.UseNumber()
		if err := dec.Decode(&args); err != nil {
			writeError(w, http.StatusBadRequest, "arguments must be a JSON object")
			return
		}
	}

	writeJSON(w, http.StatusOK, s.reg.Execute(r.Context(), name, args))
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Status: "error", Message: message, Code: code})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
