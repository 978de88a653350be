package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/export"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// GetSwagger loads and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// Editor defines the editor operations served over HTTP.
// *arbor.SyncEditor satisfies it.
type Editor interface {
	Snapshotter
	Dispatch(ev domain.Event) error
	AddChildToSelection(spec domain.NodeSpec) (string, error)
	AddChild(parentID string, spec domain.NodeSpec) (string, error)
	RemoveSelection() error
	Relabel(id, label string) error
	Reset() error
	Node(id string) (domain.Node, error)
	CurrentSelection() ([]domain.Node, error)
	Status() domain.RouterStatus
}

// Server serves an Editor to remote Renderers.
type Server struct {
	Editor    Editor
	Streams   *StreamManager
	Publisher *Publisher

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the given metrics on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m.Handler()
	}
}

// NewServer creates a Server. Register s.Publisher as a renderer on the editor and
// start it with s.Publisher.Run to stream diffs.
func NewServer(ed Editor, opts ...Option) *Server {
	s := &Server{Editor: ed}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.Streams = NewStreamManager(s.logger)
	s.Publisher = NewPublisher(ed, s.Streams, s.logger)
	s.Publisher.Prime()
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Get("/tree", s.GetTree)
	r.Route("/nodes/{id}", func(r chi.Router) {
		r.Get("/", s.GetNode)
		r.Patch("/", s.RelabelNode)
		r.Post("/children", s.AddChild)
	})
	r.Post("/events", s.DispatchEvent)
	r.Route("/selection", func(r chi.Router) {
		r.Get("/", s.GetSelection)
		r.Delete("/", s.RemoveSelection)
		r.Post("/children", s.AddChildToSelection)
	})
	r.Post("/reset", s.Reset)
	r.Get("/stream", s.Subscribe)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "arbor-http",
		"version":     strings.TrimSpace(arbor.Version),
		"api_version": apiVersion,
	})
}

// GetTree handles the GET /tree request.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &name); err != nil {
		s.badRequest(w, "invalid format parameter", err)
		return
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	tree, interaction := s.Editor.Snapshot()
	w.Header().Set("Content-Type", format.ContentType())
	if err := export.Encode(w, format, tree, &interaction); err != nil {
		s.logger.Error("GetTree: encode failed", "error", err)
	}
}

// GetNode handles the GET /nodes/{id} request.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.Editor.Node(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// RelabelNode handles the PATCH /nodes/{id} request.
func (s *Server) RelabelNode(w http.ResponseWriter, r *http.Request) {
	var body domain.NodeSpec
	if err := decodeBody(r, &body, true); err != nil {
		s.badRequest(w, "invalid request body", err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.Editor.Relabel(id, body.Label); err != nil {
		s.writeError(w, err)
		return
	}
	s.GetNode(w, r)
}

// AddChild handles the POST /nodes/{id}/children request.
func (s *Server) AddChild(w http.ResponseWriter, r *http.Request) {
	var body domain.NodeSpec
	if err := decodeBody(r, &body, false); err != nil {
		s.badRequest(w, "invalid request body", err)
		return
	}
	id, err := s.Editor.AddChild(chi.URLParam(r, "id"), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DispatchEvent handles the POST /events request.
func (s *Server) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	if err := decodeBody(r, &ev, true); err != nil {
		s.badRequest(w, "invalid event", err)
		return
	}
	if err := s.Editor.Dispatch(ev); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Editor.Status())
}

// GetSelection handles the GET /selection request.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.Editor.CurrentSelection()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes, "status": s.Editor.Status()})
}

// RemoveSelection handles the DELETE /selection request.
func (s *Server) RemoveSelection(w http.ResponseWriter, r *http.Request) {
	if err := s.Editor.RemoveSelection(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddChildToSelection handles the POST /selection/children request.
func (s *Server) AddChildToSelection(w http.ResponseWriter, r *http.Request) {
	var body domain.NodeSpec
	if err := decodeBody(r, &body, false); err != nil {
		s.badRequest(w, "invalid request body", err)
		return
	}
	id, err := s.Editor.AddChildToSelection(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Reset handles the POST /reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	if err := s.Editor.Reset(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe handles the GET /stream request (SSE).
// The first message is the full tree; later messages are diffs.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	var watch []string
	if err := runtime.BindQueryParameter("form", false, false, "watch", r.URL.Query(), &watch); err != nil {
		s.badRequest(w, "invalid watch parameter", err)
		return
	}
	for _, field := range watch {
		if field != "structure" && field != "interaction" {
			s.badRequest(w, "invalid watch parameter", fmt.Errorf("unknown field %q", field))
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("Subscribe: Streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	tree, interaction := s.Editor.Snapshot()
	initial, _ := json.Marshal(export.Document{Root: tree.Root, Interaction: &interaction})
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", initial)
	flusher.Flush()
	s.logger.Info("SSE: Client subscribed", "watch", watch)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !wanted(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "event: diff\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func wanted(msg string, watch []string) bool {
	var m Message
	if err := json.Unmarshal([]byte(msg), &m); err != nil || m.Diff == nil {
		return true
	}
	d := m.Diff
	structural := len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Relabeled) > 0 || len(d.Reordered) > 0
	return (structural && slices.Contains(watch, "structure")) ||
		(d.Interaction != nil && slices.Contains(watch, "interaction"))
}

// StatusCode maps an editor error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Debug("request rejected", "error", err, "status", code)
	}
	writeJSON(w, code, errorResponse{Error: err.Error(), Kind: observability.ErrorKind(err)})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string, err error) {
	s.logger.Warn(msg, "error", err)
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("%s: %v", msg, err), Kind: "bad_request"})
}

// decodeBody reads a JSON body. An empty body is accepted unless required.
func decodeBody(r *http.Request, dst any, required bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) && !required {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go s.Publisher.Run(ctx)
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	s.logger.Info("HTTP server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
