// Package server exposes the command engine over an HTTP JSON API, plus an
// MJPEG camera feed for live viewing.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mlnomadpy/dronify/internal/engine"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

// DefaultVideoFPS is the frame rate of the video feed when the config
// leaves it unset.
const DefaultVideoFPS = 20

// Server serves the command API. It is thin glue over the engine: request
// decoding, image plumbing, and response encoding live here, all command
// semantics live in the engine.
type Server struct {
	engine    *engine.Engine
	modelName string
	videoFPS  int
	logger    *slog.Logger
	mux       *http.ServeMux
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithVideoFPS overrides the video feed frame rate.
func WithVideoFPS(fps int) Option {
	return func(s *Server) {
		if fps > 0 {
			s.videoFPS = fps
		}
	}
}

// WithModelName sets the model name reported by the status endpoint.
func WithModelName(name string) Option {
	return func(s *Server) {
		s.modelName = name
	}
}

// WithLogger configures the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a Server around the engine and registers its routes.
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine:   eng,
		videoFPS: DefaultVideoFPS,
		logger:   slog.Default(),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("/command", s.handleCommand)
	s.mux.HandleFunc("/vision_command", s.handleVisionCommand)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/video_feed", s.handleVideoFeed)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe runs the server on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("http server listening", "address", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// commandRequest is the body of /command and /vision_command.
type commandRequest struct {
	Command string `json:"command"`

	// Image is a base64-encoded JPEG, optionally a data URL. Vision only.
	Image string `json:"image,omitempty"`

	// UseCurrentImage asks the server to grab the latest camera frame
	// instead of an uploaded image. Vision only.
	UseCurrentImage bool `json:"use_current_image,omitempty"`
}

// errorResponse is the body of non-2xx API responses.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCommand(w, r)
	if !ok {
		return
	}

	outcome := s.engine.HandleSimple(r.Context(), req.Command)
	s.writeOutcome(w, outcome)
}

func (s *Server) handleVisionCommand(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCommand(w, r)
	if !ok {
		return
	}

	var image []byte
	switch {
	case req.UseCurrentImage:
		frame, err := s.engine.CaptureFrame(r.Context())
		if err != nil {
			s.logger.Warn("current frame unavailable, proceeding without image",
				"error", err,
			)
		} else {
			image = frame
		}
	case req.Image != "":
		decoded, err := decodeImage(req.Image)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "image is not valid base64")
			return
		}
		image = decoded
	}

	outcome := s.engine.HandleVision(r.Context(), req.Command, image)
	s.writeOutcome(w, outcome)
}

// statusResponse is the body of /api/status.
type statusResponse struct {
	Service          string          `json:"service"`
	Model            string          `json:"model,omitempty"`
	VehicleConnected bool            `json:"vehicle_connected"`
	Vehicle          *vehicle.Status `json:"vehicle,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := statusResponse{
		Service: "ok",
		Model:   s.modelName,
	}
	status, err := s.engine.Status(r.Context())
	if err != nil {
		s.logger.Warn("vehicle status unavailable", "error", err)
	} else {
		resp.VehicleConnected = status.Connected
		resp.Vehicle = &status
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleVideoFeed streams camera frames as multipart/x-mixed-replace MJPEG.
// Frames the vehicle fails to produce are skipped, not fatal; the stream
// ends when the client disconnects.
func (s *Server) handleVideoFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	const boundary = "frame"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(time.Second / time.Duration(s.videoFPS))
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := s.engine.CaptureFrame(ctx)
		if err != nil {
			s.logger.Debug("frame capture failed, skipping", "error", err)
			continue
		}

		if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, len(frame)); err != nil {
			return
		}
		if _, err := w.Write(frame); err != nil {
			return
		}
		if _, err := fmt.Fprint(w, "\r\n"); err != nil {
			return
		}
		flusher.Flush()
	}
}

// decodeCommand parses and validates a command request body. On failure it
// writes the error response and returns ok=false.
func (s *Server) decodeCommand(w http.ResponseWriter, r *http.Request) (commandRequest, bool) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return commandRequest{}, false
	}

	var req commandRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<20))
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return commandRequest{}, false
	}
	if strings.TrimSpace(req.Command) == "" {
		s.writeError(w, http.StatusBadRequest, "command is required")
		return commandRequest{}, false
	}
	return req, true
}

// writeOutcome maps the outcome to an HTTP status: interpretation failures
// are client errors, execution results are reported with 200 regardless of
// aggregate status so callers always see the per-action detail.
func (s *Server) writeOutcome(w http.ResponseWriter, outcome engine.Outcome) {
	status := http.StatusOK
	if outcome.Status == engine.OutcomeFailed && len(outcome.Results) == 0 {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, outcome)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// decodeImage accepts plain base64 or a data URL ("data:image/jpeg;base64,...").
func decodeImage(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	return base64.StdEncoding.DecodeString(encoded)
}
