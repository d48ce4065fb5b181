package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vixylora/Blast-Hackathon/internal/ingest"
	"github.com/Vixylora/Blast-Hackathon/internal/metrics"
	"github.com/Vixylora/Blast-Hackathon/internal/models"
	"github.com/Vixylora/Blast-Hackathon/internal/monitor"
	"github.com/Vixylora/Blast-Hackathon/internal/store"
)

// Default query limits, matching the original service.
const (
	defaultHistoryLimit = 50
	defaultLogsLimit    = 100
)

// Targets holds the configured operating targets reported on /status.
type Targets struct {
	ORPMillivolts   float64 `json:"orpTargetMv"`
	ConductivityMax float64 `json:"conductivityMax"`
}

// Handler serves the sensor-data and event-log API.
type Handler struct {
	readings store.Readings
	events   store.Events
	runner   *monitor.Runner // optional, backs the /status surface
	metrics  *metrics.Metrics

	// Targets is optional display metadata for operator dashboards.
	Targets Targets
}

// NewHandler wires the API against its stores. runner and m may be nil.
func NewHandler(readings store.Readings, events store.Events, runner *monitor.Runner, m *metrics.Metrics) *Handler {
	return &Handler{readings: readings, events: events, runner: runner, metrics: m}
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// IngestReading validates and persists a device reading.
func (h *Handler) IngestReading(c *gin.Context) {
	var req ingest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	reading, err := req.Reading(time.Now())
	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		log.Printf("Server: Sensor data validation error: %v", verr)
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}

	if err := h.readings.Put(c.Request.Context(), reading); err != nil {
		log.Printf("Server: Error storing sensor data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store sensor data"})
		return
	}

	if h.metrics != nil {
		h.metrics.ReadingsIngested.Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sensor data received",
		"data":    reading,
	})
}

// LatestReading returns the latest pointer. Responding 404 before the first
// ingestion is the expected cold-start condition, not a failure.
func (h *Handler) LatestReading(c *gin.Context) {
	reading, err := h.readings.Latest(c.Request.Context())
	if errors.Is(err, store.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sensor data available"})
		return
	}
	if err != nil {
		log.Printf("Server: Error retrieving latest sensor data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve sensor data"})
		return
	}
	c.JSON(http.StatusOK, reading)
}

// ReadingHistory returns stored readings, newest first, bounded by limit.
func (h *Handler) ReadingHistory(c *gin.Context) {
	limit := queryLimit(c, defaultHistoryLimit)

	readings, err := h.readings.History(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Server: Error retrieving sensor history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve sensor history"})
		return
	}
	if readings == nil {
		readings = []models.SensorReading{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(readings),
		"data":  readings,
	})
}

// logEventRequest is the POST /log-event body.
type logEventRequest struct {
	Type        string                `json:"type"`
	Message     string                `json:"message"`
	SystemState models.SystemState    `json:"systemState"`
	SensorData  models.SensorSnapshot `json:"sensorData"`
}

// LogEvent appends an externally observed transition event.
func (h *Handler) LogEvent(c *gin.Context) {
	var req logEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	entry := models.EventLogEntry{
		Type:        req.Type,
		Message:     req.Message,
		SystemState: req.SystemState,
		SensorData:  req.SensorData,
		Timestamp:   time.Now().UnixMilli(),
	}

	if err := h.events.Append(c.Request.Context(), entry); err != nil {
		log.Printf("Server: Error logging event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log event"})
		return
	}

	if h.metrics != nil {
		h.metrics.EventsLogged.WithLabelValues(entry.Type).Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event logged",
		"data":    entry,
	})
}

// EventLogs returns event-log entries, newest first, with optional
// state/type/free-text filters.
func (h *Handler) EventLogs(c *gin.Context) {
	limit := queryLimit(c, defaultLogsLimit)
	filter := store.Filter{
		State:  models.SystemState(c.Query("state")),
		Type:   c.Query("type"),
		Search: c.Query("q"),
	}

	entries, err := h.events.Query(c.Request.Context(), limit, filter)
	if err != nil {
		log.Printf("Server: Error retrieving event logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve event logs"})
		return
	}
	if entries == nil {
		entries = []models.EventLogEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(entries),
		"data":  entries,
	})
}

// Status exposes the monitor loop's live state and data-link health, so an
// operator can tell "no anomalies" apart from "no data arriving".
func (h *Handler) Status(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusOK, gin.H{"monitor": "disabled"})
		return
	}

	snapshot := h.runner.Snapshot()
	age := int64(0)
	if snapshot.LastDataTime > 0 {
		age = time.Now().UnixMilli() - snapshot.LastDataTime
	}

	c.JSON(http.StatusOK, gin.H{
		"systemState":   snapshot.State,
		"connectivity":  snapshot.Connectivity,
		"lastDataTime":  snapshot.LastDataTime,
		"dataAgeMillis": age,
		"windowSize":    len(snapshot.PH),
		"targets":       h.Targets,
	})
}

// queryLimit parses ?limit=N, falling back to def on absent or bad input.
func queryLimit(c *gin.Context, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return def
	}
	return limit
}
