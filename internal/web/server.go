// Package web serves the calculator keypad to browsers.
//
// REST endpoints share one server-wide session. Every websocket connection gets its own.
package web

import (
	"bufio"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"procalc/calc"

	"github.com/gorilla/websocket"
)

//go:embed static/index.html
var static embed.FS

// ErrEmptyPress is returned for a press request without keys or label.
var ErrEmptyPress = errors.New("press needs keys or label")

const maxBodyBytes = 4 << 10

// Server routes HTTP and websocket traffic to calculator sessions.
type Server struct {
	m        *calc.Machine
	shared   *calc.Session
	logger   *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	// pongWait bounds the silence on a websocket; pings go out every pingPeriod.
	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewServer creates a server. A nil m uses the default evaluator.
func NewServer(m *calc.Machine, logger *slog.Logger) *Server {
	if m == nil {
		m = calc.NewMachine(nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		m:      m,
		shared: calc.NewSession(m),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux:        http.NewServeMux(),
		pongWait:   wsPongWait,
		pingPeriod: wsPingPeriod,
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/keypad", s.handleKeypad)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/press", s.handlePress)
	s.mux.HandleFunc("POST /api/clear", s.handleClear)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	return s
}

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// StateView is the JSON form of a calculator state.
type StateView struct {
	Expression string   `json:"expression"`
	History    []string `json:"history"`
	Display    string   `json:"display"`
	Mode       string   `json:"mode"`
}

// NewStateView converts st for the wire.
func NewStateView(st calc.State) StateView {
	hist := st.History
	if hist == nil {
		hist = []string{}
	}
	return StateView{
		Expression: st.Expression,
		History:    hist,
		Display:    st.Display(),
		Mode:       st.Mode().String(),
	}
}

// PressRequest presses either a key script or a single keypad label.
type PressRequest struct {
	Keys  string `json:"keys,omitempty"`
	Label string `json:"label,omitempty"`
}

// Actions resolves the request into calculator actions.
func (p PressRequest) Actions() ([]calc.Action, error) {
	switch {
	case p.Label != "":
		a, ok := calc.ActionForLabel(p.Label)
		if !ok {
			return nil, fmt.Errorf("label %q: %w", p.Label, calc.ErrUnknownKey)
		}
		return []calc.Action{a}, nil
	case p.Keys != "":
		return calc.ParseKeys(p.Keys)
	default:
		return nil, ErrEmptyPress
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b, err := static.ReadFile("static/index.html")
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b)
}

func (s *Server) handleKeypad(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, calc.Keypad)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"state": NewStateView(s.shared.Snapshot())})
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	var req PressRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	actions, err := req.Actions()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	st := s.shared.DispatchAll(actions)
	s.logResult(actions, st)
	writeJSON(w, http.StatusOK, map[string]any{"state": NewStateView(st)})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.shared.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"state": NewStateView(s.shared.Snapshot())})
}

func (s *Server) logResult(actions []calc.Action, st calc.State) {
	for _, a := range actions {
		if a.Kind == calc.ActionCalculate {
			s.logger.Info("calculated", "display", st.Display(), "mode", st.Mode().String())
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":     msg,
		"status":    status,
		"timestamp": time.Now(),
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Hijack is needed by the websocket upgrader.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}
