package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Vixylora/Blast-Hackathon/internal/kv"
	"github.com/Vixylora/Blast-Hackathon/internal/models"
	"github.com/Vixylora/Blast-Hackathon/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.KVReadings, *store.KVEvents) {
	t.Helper()
	mem := kv.NewMemoryStore()
	readings := store.NewKVReadings(mem)
	events := store.NewKVEvents(mem)
	handler := NewHandler(readings, events, nil, nil)
	return NewRouter(handler, "", nil), readings, events
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("status = %q, want ok", resp["status"])
	}
}

func TestIngestMissingFieldRejected(t *testing.T) {
	router, readings, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/sensor-data", map[string]any{
		"pH":  7.2,
		"orp": 650,
		// conductivity missing
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST with missing field = %d, want 400", w.Code)
	}

	// Validation failure leaves no side effect.
	if _, err := readings.Latest(context.Background()); !errors.Is(err, store.ErrNoData) {
		t.Fatalf("reading was stored despite validation failure: %v", err)
	}
}

func TestIngestStoresReading(t *testing.T) {
	router, readings, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/sensor-data", map[string]any{
		"pH":           7.2,
		"orp":          650.0,
		"conductivity": 500.0,
		"timestamp":    12345,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /sensor-data = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool                 `json:"success"`
		Data    models.SensorReading `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !resp.Success || resp.Data.PH != 7.2 || resp.Data.Timestamp != 12345 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	latest, err := readings.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != resp.Data {
		t.Fatalf("stored %+v, confirmed %+v", latest, resp.Data)
	}
}

func TestIngestDefaultsTimestamp(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/sensor-data", map[string]any{
		"pH":           7.0,
		"orp":          640.0,
		"conductivity": 490.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST = %d, want 200", w.Code)
	}

	var resp struct {
		Data models.SensorReading `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.Timestamp == 0 {
		t.Fatal("timestamp should default to receipt time")
	}
}

func TestLatestColdStartIs404(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/sensor-data/latest", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET latest on empty store = %d, want 404", w.Code)
	}
}

func TestLatestAfterIngest(t *testing.T) {
	router, _, _ := newTestRouter(t)

	doJSON(router, http.MethodPost, "/sensor-data", map[string]any{
		"pH": 7.4, "orp": 655.0, "conductivity": 505.0, "timestamp": 99,
	})

	w := doJSON(router, http.MethodGet, "/sensor-data/latest", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET latest = %d, want 200", w.Code)
	}
	var reading models.SensorReading
	if err := json.Unmarshal(w.Body.Bytes(), &reading); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if reading.PH != 7.4 || reading.Timestamp != 99 {
		t.Fatalf("latest = %+v", reading)
	}
}

func TestHistoryCountAndOrder(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, ts := range []int64{100, 300, 200} {
		doJSON(router, http.MethodPost, "/sensor-data", map[string]any{
			"pH": 7.0, "orp": 650.0, "conductivity": 500.0, "timestamp": ts,
		})
	}

	w := doJSON(router, http.MethodGet, "/sensor-data/history?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET history = %d, want 200", w.Code)
	}
	var resp struct {
		Count int                    `json:"count"`
		Data  []models.SensorReading `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Fatalf("count = %d, len = %d, want 2", resp.Count, len(resp.Data))
	}
	if resp.Data[0].Timestamp != 300 || resp.Data[1].Timestamp != 200 {
		t.Fatalf("history not newest first: %+v", resp.Data)
	}
}

func TestLogEventAndQuery(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/log-event", map[string]any{
		"type":        models.EventTypeCritical,
		"message":     "PUMP POWER SEVERED - Dangerous pH detected",
		"systemState": "critical",
		"sensorData":  map[string]any{"pH": 9.0, "orp": 700.0, "conductivity": 520.0},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /log-event = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodGet, "/event-logs?limit=10&state=critical", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /event-logs = %d, want 200", w.Code)
	}
	var resp struct {
		Count int                    `json:"count"`
		Data  []models.EventLogEntry `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Count != 1 || resp.Data[0].SensorData.PH != 9.0 {
		t.Fatalf("event query = %+v", resp)
	}
}

func TestEventLogsEmptyList(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/event-logs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /event-logs = %d, want 200", w.Code)
	}
	var resp struct {
		Count int               `json:"count"`
		Data  []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Count != 0 || resp.Data == nil {
		t.Fatalf("empty log should give count 0 and [], got %s", w.Body.String())
	}
}

func TestBearerAuth(t *testing.T) {
	mem := kv.NewMemoryStore()
	handler := NewHandler(store.NewKVReadings(mem), store.NewKVEvents(mem), nil, nil)
	router := NewRouter(handler, "secret-token", nil)

	// Health stays open.
	w := doJSON(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health with auth enabled = %d, want 200", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/sensor-data/latest", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/sensor-data/latest", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/sensor-data/latest", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("authenticated cold-start request = %d, want 404", rec.Code)
	}
}

// failingReadings simulates an unreachable persistence layer.
type failingReadings struct{}

func (failingReadings) Put(ctx context.Context, r models.SensorReading) error {
	return errors.New("store unreachable")
}
func (failingReadings) Latest(ctx context.Context) (models.SensorReading, error) {
	return models.SensorReading{}, errors.New("store unreachable")
}
func (failingReadings) History(ctx context.Context, limit int) ([]models.SensorReading, error) {
	return nil, errors.New("store unreachable")
}

func TestStorageFailureIs500(t *testing.T) {
	mem := kv.NewMemoryStore()
	handler := NewHandler(failingReadings{}, store.NewKVEvents(mem), nil, nil)
	router := NewRouter(handler, "", nil)

	w := doJSON(router, http.MethodPost, "/sensor-data", map[string]any{
		"pH": 7.2, "orp": 650.0, "conductivity": 500.0,
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("POST with failing store = %d, want 500", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/sensor-data/history", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("GET history with failing store = %d, want 500", w.Code)
	}
}
