package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventcards/pkg/buildinfo"
	errs "github.com/matzehuels/eventcards/pkg/errors"
	"github.com/matzehuels/eventcards/pkg/history"
	"github.com/matzehuels/eventcards/pkg/observability"
	"github.com/matzehuels/eventcards/pkg/pipeline"
	"github.com/matzehuels/eventcards/pkg/prompts"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
)

const (
	maxRequestBody  = 64 << 10
	shutdownTimeout = 10 * time.Second
	requestIDHeader = "X-Request-ID"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

  GET  /healthz
  GET  /v1/formats
  GET  /v1/prompts
  GET  /v1/prompts/{type}?custom=...
  GET  /v1/history?limit=N
  POST /v1/render   {"event": {...}, "format": "square_post", "scale": 2, "event_type": "retiro"}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			ctx := cmd.Context()

			runner := c.newRunner(ctx, noCache)
			defer runner.Close(context.Background())
			store := runner.History
			if store == nil {
				store = history.NewMemoryStore()
			}

			srv := &server{
				runner:           runner,
				history:          store,
				catalog:          prompts.Default(),
				illustrationsDir: c.cfg.IllustrationsDir,
				logger:           c.Logger,
			}
			return srv.listen(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// server is the HTTP API. Renders share the CLI pipeline, so a graphic from
// the API is byte-identical to one from 'render'.
type server struct {
	runner           *pipeline.Runner
	history          history.Store
	catalog          *prompts.Catalog
	illustrationsDir string
	logger           *log.Logger
}

func (s *server) listen(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr, "version", buildinfo.Version)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/formats", s.listFormats)
		r.Get("/prompts", s.listPrompts)
		r.Get("/prompts/{type}", s.getPrompt)
		r.Get("/history", s.listHistory)
		r.Post("/render", s.render)
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// requestID tags each request with a UUID, honoring one sent by the client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func getRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			dur := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), dur)
			s.logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", dur.Round(time.Microsecond),
				"request_id", getRequestID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// =============================================================================
// Responses
// =============================================================================

// apiError is the JSON error body.
type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code errs.Code, message string) {
	writeJSON(w, status, apiError{Code: string(code), Message: message, RequestID: getRequestID(r.Context())})
}

// statusFor maps error codes to HTTP statuses. Anything without a client
// error code is a server fault.
func statusFor(err error) (int, errs.Code) {
	code := errs.GetCode(err)
	switch code {
	case errs.ErrCodeUnknownFormat, errs.ErrCodeInvalidInput, errs.ErrCodeInvalidPath, errs.ErrCodeInvalidDimensions:
		return http.StatusBadRequest, code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, errs.ErrCodeInternal
	}
	return http.StatusInternalServerError, errs.ErrCodeInternal
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) listFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formatInfos())
}

func (s *server) listPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

// promptResponse is the body of GET /v1/prompts/{type}.
type promptResponse struct {
	prompts.Prompt
	Text         string `json:"prompt"`
	Illustration string `json:"illustration"`
}

func (s *server) getPrompt(w http.ResponseWriter, r *http.Request) {
	t := chi.URLParam(r, "type")
	p, ok := s.catalog.Get(t)
	if !ok {
		writeError(w, r, http.StatusNotFound, errs.ErrCodeInvalidInput, "unknown event type "+strconv.Quote(t))
		return
	}
	writeJSON(w, http.StatusOK, promptResponse{
		Prompt:       p,
		Text:         s.catalog.Build(t, r.URL.Query().Get("custom")),
		Illustration: prompts.IllustrationPath(s.illustrationsDir, t),
	})
}

func (s *server) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, errs.ErrCodeInvalidInput, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list history", "err", err, "request_id", getRequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, errs.ErrCodeInternal, "history unavailable")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// renderRequest is the body of POST /v1/render.
type renderRequest struct {
	Event     graphic.Event `json:"event"`
	Format    string        `json:"format"`
	Scale     int           `json:"scale,omitempty"`
	EventType string        `json:"event_type,omitempty"`
	Refresh   bool          `json:"refresh,omitempty"`
}

func (s *server) render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, errs.ErrCodeInvalidInput, "invalid JSON body: "+err.Error())
		return
	}
	if req.Format == "" {
		writeError(w, r, http.StatusBadRequest, errs.ErrCodeUnknownFormat, "format is required")
		return
	}

	opts := pipeline.Options{
		Event:            req.Event,
		EventType:        req.EventType,
		Formats:          []string{req.Format},
		Scale:            req.Scale,
		IllustrationsDir: s.illustrationsDir,
		Refresh:          req.Refresh,
	}
	err := opts.ValidateAndSetDefaults()
	var result *pipeline.Result
	if err == nil {
		result, err = s.runner.Render(r.Context(), opts)
	}
	if err != nil {
		status, code := statusFor(err)
		msg := errs.UserMessage(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("render failed", "err", err, "request_id", getRequestID(r.Context()))
			msg = "render failed"
		}
		writeError(w, r, status, code, msg)
		return
	}
	a := result.Artifacts[0]

	rec := history.NewRecord(req.Event.Title, []string{string(a.Format)}, nil)
	rec.EventType = opts.EventType
	rec.Scale = opts.Scale
	if a.Cached {
		rec.CacheHits = 1
	}
	if err := s.history.Add(r.Context(), rec); err != nil {
		s.logger.Warn("history not recorded", "err", err)
	}

	cacheStatus := "miss"
	if a.Cached {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Header().Set("X-Format", string(a.Format))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}
