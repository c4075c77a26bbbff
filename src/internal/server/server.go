// Package server exposes metadata lookups over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"doiproxy/src/internal/crossref"
	"doiproxy/src/internal/logger"
)

// Fetcher resolves one DOI to metadata. *crossref.Client implements it.
type Fetcher interface {
	FetchMetadata(ctx context.Context, doi string) (crossref.Metadata, error)
}

// ErrorResponse is the body of every failed lookup.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// ErrorMessage is the fixed error field of ErrorResponse.
const ErrorMessage = "An error occurred"

// RequestIDHeader carries the per-request ID on responses.
const RequestIDHeader = "X-Request-ID"

const shutdownGrace = 5 * time.Second

// Server serves GET /api/doi/{doi}.
type Server struct {
	addr    string
	fetcher Fetcher
	log     *logger.Logger
}

// New returns a server listening on addr that resolves DOIs with f.
func New(addr string, f Fetcher, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{addr: addr, fetcher: f, log: log}
}

// Handler returns the routed handler with CORS and access logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/doi/{doi...}", s.handleDOI)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.withAccessLog(withCORS(mux))
}

// ListenAndServe listens on the configured address and serves until ctx
// is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.log.Info(fmt.Sprintf("Server is running on http://%s", ln.Addr()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("Server stopped")
		return nil
	}
}

func (s *Server) handleDOI(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("doi")
	meta, err := s.fetcher.FetchMetadata(r.Context(), raw)
	if err != nil {
		// not found and upstream failures share one response; the log keeps them apart
		requestLogger(r.Context(), s.log).Error("lookup failed", err, map[string]any{
			"doi":  raw,
			"kind": errorKind(err),
		})
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorMessage, Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func errorKind(err error) string {
	switch {
	case crossref.IsNotFound(err):
		return "not_found"
	case crossref.IsUpstream(err):
		return "upstream"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// withCORS allows any origin and answers preflight requests directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
			if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
				h.Set("Access-Control-Allow-Headers", req)
				h.Add("Vary", "Access-Control-Request-Headers")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func requestLogger(ctx context.Context, fallback *logger.Logger) *logger.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*logger.Logger); ok {
		return l
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withAccessLog tags each request with an ID and logs one line per response.
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		reqLog := s.log.WithRequestID(id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, reqLog)))

		reqLog.InfoWithDuration("request", time.Since(start), map[string]any{
			"method": r.Method,
			"path":   r.URL.EscapedPath(),
			"status": rec.status,
		})
	})
}
