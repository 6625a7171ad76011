// ABOUTME: HTTP JSON API for viewer sessions: create, refresh, options, undo/redo, model, export, report.
// ABOUTME: Routes on chi; parse failures map to 422 with the error kind, metrics served at /metrics.
package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/dot"
	"github.com/2389-research/automatizer/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithExporter sets the image exporter used for svg and png exports.
func WithExporter(e render.ImageExporter) ServerOption {
	return func(s *Server) {
		s.exporter = e
	}
}

// WithMetrics sets the metrics recorder and enables GET /metrics.
func WithMetrics(m *Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// Server exposes a Store over HTTP.
type Server struct {
	router   chi.Router
	store    *Store
	exporter render.ImageExporter
	metrics  *Metrics
}

// NewServer creates a Server with all routes configured.
func NewServer(store *Store, opts ...ServerOption) *Server {
	s := &Server{
		store:    store,
		exporter: render.Graphviz{},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Post("/sessions", s.handleCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleDeleteSession)
		r.Put("/source", s.handleRefresh)
		r.Put("/options", s.handleOptions)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Get("/model", s.handleModel)
		r.Get("/validate", s.handleValidate)
		r.Get("/export", s.handleExport)
		r.Get("/report", s.handleReport)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// sessionView is the JSON body describing a session.
type sessionView struct {
	ID          string           `json:"id"`
	Revision    Revision         `json:"revision"`
	Options     Options          `json:"options"`
	Model       render.Model     `json:"model"`
	Regexp      string           `json:"regexp,omitempty"`
	RegexpError string           `json:"regexp_error,omitempty"`
	Diagnostics []dot.Diagnostic `json:"diagnostics"`
	LastError   string           `json:"last_error,omitempty"`
	Undo        int              `json:"undo"`
	Redo        int              `json:"redo"`
}

func viewOf(sess *Session) sessionView {
	snap, _ := sess.Snapshot()
	undo, redo := sess.History()
	v := sessionView{
		ID:          sess.ID,
		Revision:    sess.Revision(),
		Options:     sess.Options(),
		Model:       snap.Model,
		Regexp:      snap.Regexp,
		Diagnostics: snap.Diagnostics,
		Undo:        undo,
		Redo:        redo,
	}
	if v.Diagnostics == nil {
		v.Diagnostics = []dot.Diagnostic{}
	}
	if snap.RegexpErr != nil {
		v.RegexpError = snap.RegexpErr.Error()
	}
	if err := sess.LastError(); err != nil {
		v.LastError = err.Error()
	}
	return v
}

// sourceRequest is the body accepted by create and refresh. Non-JSON bodies
// are taken as the source text itself.
type sourceRequest struct {
	Source  string   `json:"source"`
	Options *Options `json:"options,omitempty"`
}

func readSource(r *http.Request) (sourceRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return sourceRequest{}, fmt.Errorf("read body: %w", err)
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req sourceRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return sourceRequest{}, fmt.Errorf("decode body: %w", err)
		}
		return req, nil
	}
	return sourceRequest{Source: string(body)}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := readSource(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var opts Options
	if req.Options != nil {
		opts = *req.Options
	}

	start := time.Now()
	sess, err := s.store.Create(req.Source, opts)
	s.metrics.ObserveRefresh(time.Since(start), err)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	log.Printf("component=viewer action=create session=%s", sess.ID)
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	req, err := readSource(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := sess.Options()
	if req.Options != nil {
		opts = *req.Options
	}

	start := time.Now()
	err = sess.RefreshWith(req.Source, opts)
	s.metrics.ObserveRefresh(time.Since(start), err)
	if err != nil {
		log.Printf("component=viewer action=refresh session=%s err=%q", sess.ID, err)
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var opts Options
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode options: %w", err))
		return
	}
	if err := sess.SetOptions(opts); err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*Session).Undo)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*Session).Redo)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, step func(*Session) error) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := step(sess); err != nil {
		if errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, _ := sess.Snapshot()
	writeJSON(w, http.StatusOK, snap.Model)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, _ := sess.Snapshot()
	diags := snap.Diagnostics
	if diags == nil {
		diags = []dot.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, diags)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "dot"
	}
	contentType, known := ExportContentTypes[format]
	if !known {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported export format %q", format))
		return
	}

	snap, _ := sess.Snapshot()
	data, err := Export(r.Context(), s.exporter, snap, format)
	if err != nil {
		log.Printf("component=viewer action=export session=%s format=%s err=%q", sess.ID, format, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.ObserveExport(format)
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, _ := sess.Snapshot()

	html, err := Report(r.Context(), s.exporter, snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.ObserveExport("html")
	w.Header().Set("Content-Type", ExportContentTypes["html"])
	w.Write(html)
}

// session resolves the {id} URL parameter, writing 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, ErrSessionNotFound)
		return nil, false
	}
	return sess, true
}

// errorBody is the JSON error shape. Kind is set for parse errors.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeBuildError maps parse failures to 422 with their kind, builder
// unavailability to 501, and anything else to 422 without a kind.
func writeBuildError(w http.ResponseWriter, err error) {
	var pe *automaton.ParseError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Kind: pe.Kind.String()})
	case errors.Is(err, ErrBuilderUnavailable):
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
