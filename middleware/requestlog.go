package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/izaqyos/toyMCP/endpoint"
	"github.com/izaqyos/toyMCP/logger"
)

type requestIDKey struct{}

// WithRequestID returns a context carrying the given request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id assigned by RequestLog,
// or "" if the request did not pass through it.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLog assigns each request a UUID, echoes it in the
// X-Request-Id response header, and logs one line per request with
// method, path, status, and duration. It should be the outermost
// processor so the id is visible to everything downstream.
type RequestLog struct {
	log logger.Logger
}

// NewRequestLog returns a logging processor writing to log.
func NewRequestLog(log logger.Logger) *RequestLog {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &RequestLog{log: log}
}

// statusRecorder captures the status code written by the renderer.
// Short-circuit errors never reach the writer; their status is taken
// from the EndpointError instead.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Process implements endpoint.Processor.
func (p *RequestLog) Process(w http.ResponseWriter, r *http.Request, next func(w http.ResponseWriter, r *http.Request) error) error {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	rec := &statusRecorder{ResponseWriter: w}
	start := time.Now()
	err := next(rec, r.WithContext(WithRequestID(r.Context(), requestID)))

	status := rec.status
	if err != nil {
		status = http.StatusInternalServerError
		var ee *endpoint.EndpointError
		if errors.As(err, &ee) && ee != nil && ee.Status >= 100 {
			status = ee.Status
		}
	} else if status == 0 {
		status = http.StatusOK
	}

	p.log.WithFields(map[string]interface{}{
		"request_id":  requestID,
		"method":      r.Method,
		"path":        r.URL.Path,
		"status":      status,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("request handled")

	return err
}

var _ endpoint.Processor = (*RequestLog)(nil)
