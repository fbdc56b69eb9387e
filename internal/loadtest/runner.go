// Package loadtest drives a running chart service with generated birth
// inputs and checks that stored, replayed and recomputed charts agree.
package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/pkg/logger"
)

// Worker and file constants.
const (
	workerChannelMultiplier = 2
	progressEvery           = 100
	directoryPermission     = 0750
	filePermission          = 0600
	percentageMultiplier    = 100
)

// ErrMismatch is returned when any verified chart disagrees with its
// original response.
var ErrMismatch = errors.New("loadtest: chart mismatch")

// Run executes the complete load run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting natal load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("charts", cfg.Charts),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Int("verify", cfg.Verify))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service readiness
	if err := checkServiceReady(ctx, client); err != nil {
		return stats, fmt.Errorf("service readiness check failed: %w", err)
	}

	// Step 2: Generate inputs
	inputs, err := generateInputs(ctx, cfg.Seed, cfg.Charts)
	if err != nil {
		return stats, fmt.Errorf("input generation failed: %w", err)
	}
	stats.ChartsGenerated = len(inputs)

	// Step 3: Submit concurrently
	results := submitCharts(ctx, cfg, client, inputs, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Step 4: Read back and replay a sample
	if err := verifyReads(ctx, cfg, client, results, stats); err != nil {
		return stats, fmt.Errorf("read verification failed: %w", err)
	}
	if err := verifyReplays(ctx, cfg, client, results, stats); err != nil {
		return stats, fmt.Errorf("replay verification failed: %w", err)
	}

	// Step 5: Save inputs to file
	if cfg.OutputFile != "" {
		if err := saveInputs(ctx, cfg.OutputFile, inputs); err != nil {
			log.Warn(ctx, "failed to save inputs to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Mismatches > 0 {
		return stats, fmt.Errorf("%w: %d charts", ErrMismatch, stats.Mismatches)
	}
	log.Info(ctx, "load run completed successfully")
	return stats, nil
}

// checkServiceReady verifies the service is accepting charts.
func checkServiceReady(ctx context.Context, client *HTTPClient) error {
	status, _, _, err := client.Get(ctx, "/readyz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service not ready: status %d", status)
	}
	return nil
}

// saveInputs writes the generated inputs as an indented JSON array.
func saveInputs(ctx context.Context, filename string, inputs []astro.BirthInput) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(inputs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "inputs saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, chartsPerSecond float64
	if stats.ChartsSubmitted > 0 {
		successRate = float64(stats.ChartsCreated) / float64(stats.ChartsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		chartsPerSecond = float64(stats.ChartsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("chartsGenerated", stats.ChartsGenerated),
		logger.Int("chartsSubmitted", stats.ChartsSubmitted),
		logger.Int("chartsCreated", stats.ChartsCreated),
		logger.Int("chartsRejected", stats.ChartsRejected),
		logger.Int("chartsFailed", stats.ChartsFailed),
		logger.Int("readsVerified", stats.ReadsVerified),
		logger.Int("replaysVerified", stats.ReplaysVerified),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("chartsPerSecond", chartsPerSecond))
}
