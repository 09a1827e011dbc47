package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlnomadpy/dronify/internal/classify"
	"github.com/mlnomadpy/dronify/internal/engine"
	"github.com/mlnomadpy/dronify/internal/llm/providers"
	"github.com/mlnomadpy/dronify/internal/plan"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

func newTestServer(t *testing.T, planResponses []string) (*Server, *vehicle.SimController) {
	t.Helper()
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)

	var planner *plan.Planner
	if planResponses != nil {
		planner = plan.New(providers.NewMockGenerator(planResponses))
	}
	eng := engine.New(engine.Config{
		Controller: ctrl,
		Classifier: classify.New(nil),
		Planner:    planner,
	})
	return New(eng, WithModelName("mock")), ctrl
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCommandEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := postJSON(t, srv, "/command", map[string]string{"command": "take off"})
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome engine.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, engine.OutcomeSuccess, outcome.Status)
	require.Len(t, outcome.Results, 1)
	assert.NotEmpty(t, outcome.RequestID)
}

func TestCommandEndpointRejectsEmptyCommand(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := postJSON(t, srv, "/command", map[string]string{"command": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "command is required")
}

func TestCommandEndpointRejectsBadJSON(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommandEndpointMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/command", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCommandEndpointUnrecognized(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := postJSON(t, srv, "/command", map[string]string{"command": "sing me a song"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var outcome engine.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, engine.OutcomeFailed, outcome.Status)
	assert.Empty(t, outcome.Results)
}

func TestVisionCommandWithUploadedImage(t *testing.T) {
	srv, _ := newTestServer(t, []string{
		"Clear view.\n1. take off\n2. move forward\nConfidence: 0.9",
	})

	image := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff, 0xe0})
	rec := postJSON(t, srv, "/vision_command", map[string]any{
		"command": "explore the room",
		"image":   image,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome engine.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, engine.OutcomeSuccess, outcome.Status)
	assert.Len(t, outcome.PlannedActions, 2)
	require.NotNil(t, outcome.Confidence)
	assert.Equal(t, 0.9, *outcome.Confidence)
}

func TestVisionCommandDataURL(t *testing.T) {
	srv, _ := newTestServer(t, []string{"1. hover\nConfidence: 0.9"})

	image := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8})
	rec := postJSON(t, srv, "/vision_command", map[string]any{
		"command": "hold position",
		"image":   image,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVisionCommandRejectsBadImage(t *testing.T) {
	srv, _ := newTestServer(t, []string{"1. hover\nConfidence: 0.9"})

	rec := postJSON(t, srv, "/vision_command", map[string]any{
		"command": "hold position",
		"image":   "not-base64!!!",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVisionCommandUseCurrentImage(t *testing.T) {
	gen := providers.NewMockGenerator([]string{"1. hover\nConfidence: 0.9"})
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)
	eng := engine.New(engine.Config{
		Controller: ctrl,
		Classifier: classify.New(nil),
		Planner:    plan.New(gen),
	})
	srv := New(eng)

	rec := postJSON(t, srv, "/vision_command", map[string]any{
		"command":           "hold position",
		"use_current_image": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The captured frame reached the generator.
	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.NotEmpty(t, calls[0].Request.Image)
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Service)
	assert.Equal(t, "mock", resp.Model)
	assert.True(t, resp.VehicleConnected)
	require.NotNil(t, resp.Vehicle)
	assert.True(t, resp.Vehicle.Initialized)
}

func TestVideoFeedStreamsFrames(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.videoFPS = 50

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/video_feed", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		srv.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("video feed did not stop on client disconnect")
	}

	assert.Contains(t, rec.Header().Get("Content-Type"), "multipart/x-mixed-replace")
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "--frame")
	assert.Contains(t, string(body), "Content-Type: image/jpeg")
}
