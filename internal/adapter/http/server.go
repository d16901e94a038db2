// Package http exposes the prediction API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/land-risk-service/internal/observability"
	"github.com/couchcryptid/land-risk-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Predictor runs the inference pipeline for one parsed request.
type Predictor interface {
	Predict(ctx context.Context, req pipeline.Request) (*pipeline.Response, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the prediction API over HTTP.
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the prediction routes plus
// /health, /healthz, /readyz, and /metrics.
func NewServer(addr string, predictor Predictor, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/predict", s.recovered("manual", s.handlePredict))
	mux.HandleFunc("POST /api/v1/predict-location", s.recovered("location", s.handlePredictLocation))
	// Backward-compatible alias for early integrations.
	mux.HandleFunc("POST /predict", s.recovered("manual", s.handlePredict))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.predictor.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handlePredict serves manual-feature requests. Payloads carrying
// coordinates are routed through resolution, matching the location
// endpoint's behavior.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request, endpoint string) {
	payload, err := decodePayload(r)
	if err != nil {
		s.writeClientError(w, endpoint, err.Error())
		return
	}

	req, err := parseRequest(payload)
	if err != nil {
		s.writeClientError(w, endpoint, err.Error())
		return
	}

	s.predict(w, r, endpoint, req)
}

// handlePredictLocation serves coordinate requests and rejects payloads
// without a usable latitude and longitude.
func (s *Server) handlePredictLocation(w http.ResponseWriter, r *http.Request, endpoint string) {
	payload, err := decodePayload(r)
	if err != nil {
		s.writeClientError(w, endpoint, err.Error())
		return
	}

	if _, ok := payload["latitude"]; !ok {
		s.writeClientError(w, endpoint, "Missing latitude or longitude")
		return
	}
	if _, ok := payload["longitude"]; !ok {
		s.writeClientError(w, endpoint, "Missing latitude or longitude")
		return
	}

	req, err := parseRequest(payload)
	if err != nil {
		s.writeClientError(w, endpoint, err.Error())
		return
	}
	if !req.HasCoordinates() {
		s.writeClientError(w, endpoint, "Latitude and longitude must be numeric")
		return
	}

	s.predict(w, r, endpoint, req)
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request, endpoint string, req pipeline.Request) {
	start := time.Now()
	resp, err := s.predictor.Predict(r.Context(), req)
	s.metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		s.writePredictError(w, endpoint, err)
		return
	}
	s.metrics.Predictions.WithLabelValues(endpoint, "ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writePredictError(w http.ResponseWriter, endpoint string, err error) {
	var vErr *pipeline.ValidationError
	switch {
	case errors.As(err, &vErr):
		s.writeClientError(w, endpoint, vErr.Msg)
	case errors.Is(err, pipeline.ErrModelNotLoaded):
		s.metrics.Predictions.WithLabelValues(endpoint, "model_unavailable").Inc()
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "Model not loaded. Provide a trained model artifact and retry.",
		})
	default:
		s.metrics.Predictions.WithLabelValues(endpoint, "server_error").Inc()
		s.logger.Error("prediction failed", "endpoint", endpoint, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Server error",
			"details": err.Error(),
		})
	}
}

func (s *Server) writeClientError(w http.ResponseWriter, endpoint, msg string) {
	s.metrics.Predictions.WithLabelValues(endpoint, "client_error").Inc()
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// recovered wraps a handler so an unexpected panic becomes a generic
// server-error response instead of killing the process.
func (s *Server) recovered(endpoint string, h func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.metrics.Predictions.WithLabelValues(endpoint, "server_error").Inc()
				s.logger.Error("panic in request handler", "endpoint", endpoint, "panic", rec)
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error":   "Server error",
					"details": fmt.Sprint(rec),
				})
			}
		}()
		h(w, r, endpoint)
	}
}

func decodePayload(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid JSON body")
	}
	return payload, nil
}

// parseRequest coerces the loosely-typed JSON payload into a pipeline
// request. Numeric fields accept both JSON numbers and numeric strings,
// matching what existing clients send.
func parseRequest(payload map[string]any) (pipeline.Request, error) {
	var req pipeline.Request

	if v, ok := payload["latitude"]; ok {
		lat, ok := toFloat(v)
		if !ok {
			return req, fmt.Errorf("Latitude and longitude must be numeric")
		}
		req.Latitude = &lat
	}
	if v, ok := payload["longitude"]; ok {
		lon, ok := toFloat(v)
		if !ok {
			return req, fmt.Errorf("Latitude and longitude must be numeric")
		}
		req.Longitude = &lon
	}
	if v, ok := payload["region"].(string); ok {
		req.Region = v
	}

	if v, ok := payload["soil_type"].(string); ok {
		req.SoilType = &v
	}
	if v, ok := payload["elevation_category"].(string); ok {
		req.ElevationCategory = &v
	}
	for field, target := range map[string]**float64{
		"flood_frequency":     &req.FloodFrequency,
		"rainfall_intensity":  &req.RainfallIntensity,
		"distance_from_river": &req.DistanceFromRiver,
	} {
		v, ok := payload[field]
		if !ok {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return req, fmt.Errorf("Field %s must be numeric", field)
		}
		*target = &f
	}

	return req, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
