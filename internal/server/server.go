package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	improve "aiupstart.com/go-improve"
	"aiupstart.com/go-improve/internal/agent"
	"aiupstart.com/go-improve/internal/config"
	"aiupstart.com/go-improve/internal/metrics"
	"aiupstart.com/go-improve/internal/utils"
)

const (
	// generic message for every upstream failure; details stay in the logs
	upstreamErrorMessage = "LLM API call failed"
	shutdownTimeout      = 5 * time.Second
)

// Improver is the work behind POST /ai-improve.
type Improver interface {
	Improve(ctx context.Context, code, instruction string) (improve.ExtractionResult, error)
}

// ImproveRequest is the payload sent by the editor extension.
type ImproveRequest struct {
	Code   string `json:"code"`
	Prompt string `json:"prompt"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server relays improvement requests to the model and returns the extracted result.
type Server struct {
	improver    Improver
	addr        string
	timeout     time.Duration
	maxBody     int64
	withMetrics bool
}

func New(improver Improver, cfg *config.Config) *Server {
	return &Server{
		improver:    improver,
		addr:        cfg.Server.Addr,
		timeout:     cfg.LLM.Timeout,
		maxBody:     cfg.Server.MaxBodySize,
		withMetrics: cfg.Server.MetricsAddr == "",
	}
}

// ServeContext listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeContext(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	utils.Logger.Info().Str("module", "server").Str("addr", s.addr).Msg("Improve API listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		utils.Logger.Info().Str("module", "server").Msg("Shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ai-improve", s.handleImprove)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.withMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	return requestID(accessLog(cors(mux)))
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	log := utils.Logger.With().Str("module", "server").Str("request_id", RequestIDFrom(r.Context())).Logger()

	var req ImproveRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	result, err := s.improver.Improve(ctx, req.Code, req.Prompt)
	if err != nil {
		log.Error().Err(err).Msg("Improve request failed")
		msg := "internal error"
		if errors.Is(err, agent.ErrUpstream) {
			msg = upstreamErrorMessage
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	log.Debug().Bool("code_found", result.Code != "").Msg("Improve request served")
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		utils.Logger.Error().Err(err).Str("module", "server").Msg("Failed to encode response")
	}
}
