package core

// scheduler.go re-imports provider exports from an object store on a timer.
//
// Each cycle fetches the configured object for every provider and runs it
// through ImportCSV with Sync set, so the inventory tracks the latest export.
// A failing provider is logged and does not stop the others or the loop.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// DefaultSyncInterval is used when SyncConfig.Interval is not positive.
const DefaultSyncInterval = time.Hour

// ObjectFetcher reads a whole object from a bucket.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// SyncConfig selects the objects the scheduler imports.
type SyncConfig struct {
	Bucket       string
	AWSKey       string // object key of the AWS export; empty skips AWS
	AzureKey     string // object key of the Azure export; empty skips Azure
	Interval     time.Duration
	DeleteAbsent bool
}

type syncTarget struct {
	provider inventory.Provider
	key      string
}

func (c SyncConfig) targets() []syncTarget {
	var out []syncTarget
	if c.AWSKey != "" {
		out = append(out, syncTarget{inventory.ProviderAWS, c.AWSKey})
	}
	if c.AzureKey != "" {
		out = append(out, syncTarget{inventory.ProviderAzure, c.AzureKey})
	}
	return out
}

// StartSyncScheduler imports the configured objects immediately and then
// every Interval until ctx is cancelled.
func (s *Service) StartSyncScheduler(ctx context.Context, fetcher ObjectFetcher, cfg SyncConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	slog.Info("sync scheduler started",
		"bucket", cfg.Bucket,
		"aws_key", cfg.AWSKey,
		"azure_key", cfg.AzureKey,
		"interval", interval,
	)

	s.SyncOnce(ctx, fetcher, cfg)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			s.SyncOnce(ctx, fetcher, cfg)
		}
	}
}

// SyncOnce runs one import per configured provider and returns the results
// of the imports that succeeded.
func (s *Service) SyncOnce(ctx context.Context, fetcher ObjectFetcher, cfg SyncConfig) []*ImportResult {
	start := time.Now()
	var results []*ImportResult

	for _, t := range cfg.targets() {
		res, err := s.ImportObject(ctx, fetcher, cfg.Bucket, t.key, t.provider, cfg.DeleteAbsent)
		if err != nil {
			var nvr *NoValidRecordsError
			if errors.As(err, &nvr) {
				slog.Warn("sync skipped: no valid records", "provider", t.provider, "key", t.key, "rows", nvr.Rows)
				continue
			}
			slog.Error("sync failed", "provider", t.provider, "key", t.key, "error", err)
			continue
		}
		results = append(results, res)
	}

	slog.Info("sync cycle completed",
		"imports", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return results
}

// ImportObject fetches bucket/key and imports it for provider.
func (s *Service) ImportObject(ctx context.Context, fetcher ObjectFetcher, bucket, key string, provider inventory.Provider, syncDeletes bool) (*ImportResult, error) {
	content, err := fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("fetch s3://%s/%s: %w", bucket, key, err)
	}
	return s.ImportCSV(ctx, ImportRequest{
		Provider: string(provider),
		FileName: key,
		Source:   fmt.Sprintf("s3://%s/%s", bucket, key),
		Content:  content,
		Sync:     syncDeletes,
	})
}
