package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc адаптер функции к Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// StatsProvider отдает состояние фоновой доставки колбэков.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// HealthHandler обработчик health checks
type HealthHandler struct {
	database  Pinger
	queue     Pinger
	callbacks StatsProvider
	version   string
	log       *zap.Logger
}

// NewHealthHandler создает новый health handler. queue и callbacks могут быть nil.
func NewHealthHandler(database, queue Pinger, callbacks StatsProvider, version string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		database:  database,
		queue:     queue,
		callbacks: callbacks,
		version:   version,
		log:       log,
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	Status         string                 `json:"status"`
	Timestamp      time.Time              `json:"timestamp"`
	Version        string                 `json:"version"`
	DatabaseStatus string                 `json:"database_status"`
	QueueStatus    string                 `json:"queue_status,omitempty"`
	Callbacks      map[string]interface{} `json:"callbacks,omitempty"`
	Uptime         string                 `json:"uptime,omitempty"`
}

var startTime = time.Now()

func (h *HealthHandler) check(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return ""
	}
	if err := p.Ping(ctx); err != nil {
		h.log.Error(name+" health check failed", zap.Error(err))
		return "unhealthy"
	}
	return "healthy"
}

// Health основной health check endpoint
//
//	@Summary	Liveness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now(),
		Version:        h.version,
		DatabaseStatus: h.check(ctx, "database", h.database),
		Uptime:         time.Since(startTime).String(),
	}

	statusCode := http.StatusOK
	if response.DatabaseStatus == "unhealthy" {
		response.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, response, statusCode)
}

// Ready readiness probe: база, брокер колбэков и состояние диспетчера
//
//	@Summary	Readiness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:         "ready",
		Timestamp:      time.Now(),
		Version:        h.version,
		DatabaseStatus: h.check(ctx, "database", h.database),
		QueueStatus:    h.check(ctx, "queue", h.queue),
	}
	if h.callbacks != nil {
		response.Callbacks = h.callbacks.Stats()
	}

	statusCode := http.StatusOK
	if response.DatabaseStatus == "unhealthy" || response.QueueStatus == "unhealthy" {
		response.Status = "not ready"
		statusCode = http.StatusServiceUnavailable
		h.log.Warn("readiness check failed",
			zap.String("database_status", response.DatabaseStatus),
			zap.String("queue_status", response.QueueStatus))
	}
	writeJSON(w, response, statusCode)
}
