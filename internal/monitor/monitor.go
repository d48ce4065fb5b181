// Package monitor runs the periodic fetch-classify-log cycle: pull the latest
// reading, update the per-metric windows, derive the safety state, and append
// an event on every state transition.
package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Vixylora/Blast-Hackathon/internal/classifier"
	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

// ErrNoData is returned by a Fetcher when the source is reachable but no
// reading has been ingested yet. The loop treats it as a successful cycle.
var ErrNoData = errors.New("monitor: no sensor data available yet")

// Fetcher pulls the latest reading from wherever the loop is pointed at
// (the reading store in-process, or the HTTP API for remote observers).
type Fetcher interface {
	FetchLatest(ctx context.Context) (models.SensorReading, error)
}

// EventSink receives transition events. A nil sink makes the loop a pure
// read-only observer that classifies without logging.
type EventSink interface {
	Append(ctx context.Context, entry models.EventLogEntry) error
}

// Snapshot is the externally visible state of the loop at one instant.
type Snapshot struct {
	State        models.SystemState      `json:"systemState"`
	Connectivity models.ConnectionStatus `json:"connectivity"`
	LastDataTime int64                   `json:"lastDataTime"` // epoch ms, 0 before first data
	PH           []float64               `json:"pH"`
	ORP          []float64               `json:"orp"`
	Conductivity []float64               `json:"conductivity"`
}

// Observer is notified after every cycle that changed the window.
type Observer func(Snapshot)

// Config holds the loop settings.
type Config struct {
	Interval   time.Duration // default 2s
	WindowSize int           // default 16
	Thresholds classifier.Thresholds

	// OnFetchFailure is called once per failed fetch cycle. May be nil.
	OnFetchFailure func()
}

// DefaultConfig returns the production loop settings.
func DefaultConfig() Config {
	return Config{
		Interval:   2 * time.Second,
		WindowSize: 16,
		Thresholds: classifier.DefaultThresholds(),
	}
}

// Runner owns the sliding windows and the live SystemState. One Runner is
// one loop instance; the production deployment runs a single authoritative
// Runner with an EventSink, observers run theirs with a nil sink.
type Runner struct {
	fetcher        Fetcher
	sink           EventSink
	observer       Observer
	interval       time.Duration
	thresholds     classifier.Thresholds
	onFetchFailure func()

	mu           sync.RWMutex
	ph           *Window
	orp          *Window
	conductivity *Window
	state        models.SystemState
	stateKnown   bool
	connectivity models.ConnectionStatus
	lastDataTime int64
}

// NewRunner creates a loop instance. sink and observer may be nil.
func NewRunner(fetcher Fetcher, sink EventSink, observer Observer, cfg Config) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 16
	}
	return &Runner{
		fetcher:        fetcher,
		sink:           sink,
		observer:       observer,
		interval:       cfg.Interval,
		thresholds:     cfg.Thresholds,
		onFetchFailure: cfg.OnFetchFailure,
		ph:             NewWindow(cfg.WindowSize),
		orp:            NewWindow(cfg.WindowSize),
		conductivity:   NewWindow(cfg.WindowSize),
		connectivity:   models.StatusConnecting,
	}
}

// Run starts the ticker loop and blocks until ctx is cancelled. Cycles never
// overlap: each tick runs one fetch-classify-log pass to completion.
func (r *Runner) Run(ctx context.Context) {
	log.Printf("Monitor: Starting polling loop (interval=%v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Initial cycle before the first tick.
	r.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Monitor: Shutting down...")
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

// cycle performs one fetch-classify-log pass.
func (r *Runner) cycle(ctx context.Context) {
	reading, err := r.fetcher.FetchLatest(ctx)
	if errors.Is(err, ErrNoData) {
		// Server reachable, nothing ingested yet.
		r.setConnectivity(models.StatusConnected)
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("Monitor: Fetch failed: %v", err)
		if r.onFetchFailure != nil {
			r.onFetchFailure()
		}
		r.setConnectivity(models.StatusError)
		return
	}

	r.mu.Lock()
	r.connectivity = models.StatusConnected
	r.lastDataTime = time.Now().UnixMilli()
	r.ph.Push(reading.PH)
	r.orp.Push(reading.ORP)
	r.conductivity.Push(reading.Conductivity)

	previous, current, ok := r.ph.LastPair()
	if !ok {
		// Classification deferred until two samples exist.
		snapshot := r.snapshotLocked()
		r.mu.Unlock()
		r.notify(snapshot)
		return
	}

	state := r.thresholds.Classify(previous, current)
	transition := !r.stateKnown || state != r.state
	r.state = state
	r.stateKnown = true
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	if transition {
		log.Printf("Monitor: State transition to %s (pH %.2f -> %.2f)", state, previous, current)
		r.logTransition(ctx, state, reading)
	}
	r.notify(snapshot)
}

// logTransition appends the transition event, if a sink is configured.
func (r *Runner) logTransition(ctx context.Context, state models.SystemState, reading models.SensorReading) {
	if r.sink == nil {
		return
	}
	entry := models.TransitionEvent(state, reading.Snapshot(), time.Now().UnixMilli())
	if err := r.sink.Append(ctx, entry); err != nil {
		log.Printf("Monitor: Failed to log %s event: %v", entry.Type, err)
	}
}

func (r *Runner) setConnectivity(status models.ConnectionStatus) {
	r.mu.Lock()
	changed := r.connectivity != status
	r.connectivity = status
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	if changed {
		log.Printf("Monitor: Connectivity is now %s", status)
	}
	r.notify(snapshot)
}

func (r *Runner) notify(snapshot Snapshot) {
	if r.observer != nil {
		r.observer(snapshot)
	}
}

// snapshotLocked builds a Snapshot; the caller holds r.mu.
func (r *Runner) snapshotLocked() Snapshot {
	return Snapshot{
		State:        r.state,
		Connectivity: r.connectivity,
		LastDataTime: r.lastDataTime,
		PH:           r.ph.Values(),
		ORP:          r.orp.Values(),
		Conductivity: r.conductivity.Values(),
	}
}

// Snapshot returns the current loop state for the status surface.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// State returns the live safety state; ok is false before the first
// classification.
func (r *Runner) State() (models.SystemState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state, r.stateKnown
}

// Connectivity returns the loop's data-link health.
func (r *Runner) Connectivity() models.ConnectionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connectivity
}
