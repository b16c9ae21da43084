// Package api serves the session to a browser widget as JSON over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mako10k/shellassist/internal/logging"
	"github.com/mako10k/shellassist/internal/metrics"
	"github.com/mako10k/shellassist/internal/session"
)

const maxBodyBytes = 64 << 10

// Server hosts the process's one session.
type Server struct {
	sess   *session.Session
	sug    session.Suggester
	router *mux.Router
}

// NewServer builds the router for sess.
func NewServer(sess *session.Session, sug session.Suggester) *Server {
	s := &Server{sess: sess, sug: sug}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logging.Middleware, metricsMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	api.HandleFunc("/session/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/commands", s.handleCommand).Methods(http.MethodPost)
	api.HandleFunc("/complete", s.handleComplete).Methods(http.MethodPost)
	api.HandleFunc("/history/back", s.handleHistoryBack).Methods(http.MethodPost)
	api.HandleFunc("/history/forward", s.handleHistoryForward).Methods(http.MethodPost)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.L().Info("http server listening", zap.String("addr", addr), zap.String("session_id", s.sess.ID()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type commandRequest struct {
	Line string `json:"line"`
}

type commandResponse struct {
	session.Output
	Cwd string `json:"cwd"`
	CPU int    `json:"cpu"`
	Mem int    `json:"mem"`
}

type completeRequest struct {
	Input string `json:"input"`
}

type inputResponse struct {
	Input string `json:"input"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Reset(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := s.sess.Exec(r.Context(), req.Line, s.sug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cpu, mem := s.sess.Gauges()
	writeJSON(w, http.StatusOK, commandResponse{Output: out, Cwd: s.sess.Cwd(), CPU: cpu, Mem: mem})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decode(w, r, &req) {
		return
	}
	// The widget lists candidates itself; the scrollback stays untouched.
	writeJSON(w, http.StatusOK, s.sess.Candidates(req.Input))
}

func (s *Server) handleHistoryBack(w http.ResponseWriter, r *http.Request) {
	in, _ := s.sess.Back()
	writeJSON(w, http.StatusOK, inputResponse{Input: in})
}

func (s *Server) handleHistoryForward(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, inputResponse{Input: s.sess.Forward()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, session.ErrBusy) {
		status = http.StatusConflict
	} else {
		logging.WithContext(r.Context()).Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.L().Warn("failed to encode response", zap.Error(err))
	}
}
