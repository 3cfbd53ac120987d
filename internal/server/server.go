package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/metrics"
	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/translit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Transliterator converts text between two scripts.
type Transliterator interface {
	Transliterate(ctx context.Context, text string, source, target script.ID) (translit.Result, error)
}

// ScriptInfo describes one script served by GET /scripts.
type ScriptInfo struct {
	ID      script.ID `json:"id"`
	Abugida bool      `json:"abugida"`
}

// ScriptLister returns the scripts the server can convert between.
type ScriptLister interface {
	ListScripts() []ScriptInfo
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   64 << 10,
		workers:        4,
		requestTimeout: 30 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for
// POST /transliterate.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent conversions. Zero or
// less disables throttling.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request conversion deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	conv    Transliterator
	scripts ScriptLister
	opts    options
	sem     chan struct{} // semaphore for worker pool
	log     *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /scripts,
// POST /transliterate and /metrics.
func NewHandler(conv Transliterator, scripts ScriptLister, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		conv:    conv,
		scripts: scripts,
		opts:    opts,
		log:     opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", instrument("/health", h.handleHealth))
	mux.HandleFunc("/scripts", instrument("/scripts", h.handleScripts))
	mux.HandleFunc("/transliterate", instrument("/transliterate", h.handleTransliterate))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleScripts(w http.ResponseWriter, _ *http.Request) {
	scripts := h.scripts.ListScripts()
	if scripts == nil {
		scripts = []ScriptInfo{}
	}
	writeJSON(w, http.StatusOK, scripts)
}

type transliterateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type transliterateResponse struct {
	Text    string `json:"text"`
	Dropped int    `json:"dropped"`
	Unknown int    `json:"unknown"`
}

func (h *handler) handleTransliterate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	var req transliterateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	source, err := config.NormalizeScript(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, "source: "+err.Error())
		return
	}
	target, err := config.NormalizeScript(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "target: "+err.Error())
		return
	}

	// Acquire a worker slot; honour context cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			// slot acquired
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		metrics.WorkersBusy.Inc()
		defer func() {
			metrics.WorkersBusy.Dec()
			<-h.sem
		}()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	res, err := h.conv.Transliterate(ctx, req.Text, source, target)
	durationMS := time.Since(start).Milliseconds()

	attrs := []any{
		slog.String("source", source.String()),
		slog.String("target", target.String()),
		slog.Int("text_len", len(req.Text)),
		slog.Int64("duration_ms", durationMS),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			h.log.WarnContext(r.Context(), "transliteration timed out", attrs...)
			writeError(w, http.StatusGatewayTimeout, "transliteration timed out")
			return
		}

		var cfgErr *script.ConfigError
		if errors.As(err, &cfgErr) {
			h.log.ErrorContext(r.Context(), "script table unavailable", attrs...)
		} else {
			h.log.ErrorContext(r.Context(), "transliteration failed", attrs...)
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.ObserveConversion(source.String(), target.String(), len(req.Text), res.Dropped, res.Unknown)

	attrs = append(attrs, slog.Int("dropped", res.Dropped), slog.Int("unknown", res.Unknown))
	h.log.InfoContext(r.Context(), "transliteration complete", attrs...)

	writeJSON(w, http.StatusOK, transliterateResponse{
		Text:    res.Text,
		Dropped: res.Dropped,
		Unknown: res.Unknown,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency for route.
func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
	}
}

// ---------------------------------------------------------------------------
// Server: wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	registry        *script.Registry
	shutdownTimeout time.Duration
}

// New returns a server for cfg. Tables come from cfg.Scripts.TableDir when
// set and from the embedded set otherwise.
func New(cfg config.Config) *Server {
	shutdown := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if shutdown <= 0 {
		shutdown = 30 * time.Second
	}
	return &Server{
		cfg:             cfg,
		registry:        script.OpenRegistry(cfg.Scripts.TableDir),
		shutdownTimeout: shutdown,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	pipe := NewPipeline(s.registry, s.cfg.Convert.ChunkBytes, s.cfg.Convert.Workers)

	handlerOpts := []Option{
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout) * time.Second),
	}

	h := NewHandler(pipe, pipe, handlerOpts...)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks that the server at addr reports healthy and serves every
// script in want.
func ProbeHTTP(ctx context.Context, addr string, want ...script.ID) error {
	base := "http://" + addr

	var health struct {
		Status string `json:"status"`
	}
	if err := getJSON(ctx, base+"/health", &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", health.Status)
	}
	if len(want) == 0 {
		return nil
	}

	var scripts []ScriptInfo
	if err := getJSON(ctx, base+"/scripts", &scripts); err != nil {
		return err
	}
	served := lo.SliceToMap(scripts, func(s ScriptInfo) (script.ID, bool) { return s.ID, true })
	for _, id := range want {
		if !served[id] {
			return fmt.Errorf("server does not serve script %q", id)
		}
	}
	return nil
}

func getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", url, err)
	}
	return nil
}
