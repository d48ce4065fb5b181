package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vixylora/Blast-Hackathon/internal/apiclient"
	"github.com/Vixylora/Blast-Hackathon/internal/classifier"
	"github.com/Vixylora/Blast-Hackathon/internal/monitor"
	"github.com/Vixylora/Blast-Hackathon/pkg/config"
)

// cmd/monitor is a read-only terminal observer. It runs its own
// synchronization loop against the HTTP API but never appends events:
// transition logging is the authoritative server loop's job.
func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "service base URL")
	)
	flag.Parse()

	cfg := config.Load()

	client := apiclient.New(*baseURL, cfg.APIToken)

	thresholds := classifier.Thresholds{
		PHHigh:     cfg.PHHighThreshold,
		PHLow:      cfg.PHLowThreshold,
		PHWarnHigh: cfg.PHWarnHighThreshold,
		PHWarnLow:  cfg.PHWarnLowThreshold,
		RateDelta:  cfg.PHRateDelta,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := monitor.NewRunner(client, nil, newSnapshotPrinter(), monitor.Config{
		Interval:   cfg.PollInterval,
		WindowSize: cfg.WindowSize,
		Thresholds: thresholds,
	})

	log.Printf("Watching %s (interval=%v)", *baseURL, cfg.PollInterval)
	go runner.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Stopping observer...")
	cancel()
}

// newSnapshotPrinter returns an observer that logs the loop state after each
// cycle that changed it, keeping its dedup state in the closure.
func newSnapshotPrinter() monitor.Observer {
	var lastPrinted string
	return func(s monitor.Snapshot) {
		line := string(s.Connectivity) + "/" + string(s.State)
		if line == lastPrinted {
			return
		}
		lastPrinted = line

		age := "never"
		if s.LastDataTime > 0 {
			age = time.Since(time.UnixMilli(s.LastDataTime)).Truncate(time.Second).String()
		}
		log.Printf("connectivity=%s state=%s window=%d lastData=%s ago",
			s.Connectivity, s.State, len(s.PH), age)
	}
}
