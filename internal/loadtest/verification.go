package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/natal/pkg/logger"
)

// verifyReads fetches up to cfg.Verify created snapshots and checks that the
// stored profile matches what the create call returned.
func verifyReads(ctx context.Context, cfg *Config, client *HTTPClient, results []Result, stats *Stats) error {
	log := logger.Get()
	checked := 0
	for _, res := range results {
		if checked >= cfg.Verify {
			break
		}
		if res.Err != nil || res.Status != http.StatusCreated {
			continue
		}
		checked++

		status, _, body, err := client.Get(ctx, "/charts/"+res.Reply.ID)
		if err != nil {
			return fmt.Errorf("read chart %s: %w", res.Reply.ID, err)
		}
		if status != http.StatusOK {
			stats.Mismatches++
			log.Warn(ctx, "stored chart not readable",
				logger.String("id", res.Reply.ID), logger.Int("status", status))
			continue
		}
		var stored snapshotReply
		if err := json.Unmarshal(body, &stored); err != nil {
			return fmt.Errorf("decode chart %s: %w", res.Reply.ID, err)
		}
		if err := sameProfile(res.Reply, stored); err != nil {
			stats.Mismatches++
			log.Warn(ctx, "stored chart differs", logger.String("id", res.Reply.ID), logger.Error(err))
			continue
		}
		stats.ReadsVerified++
	}
	return nil
}

// verifyReplays submits sampled inputs twice under one idempotency key and
// once more without a key. The replay must return the first snapshot and the
// fresh computation must score identically.
func verifyReplays(ctx context.Context, cfg *Config, client *HTTPClient, results []Result, stats *Stats) error {
	log := logger.Get()
	checked := 0
	for _, res := range results {
		if checked >= cfg.Verify {
			break
		}
		if res.Err != nil || res.Status != http.StatusCreated {
			continue
		}
		checked++

		key := uuid.NewString()
		first, err := postReply(ctx, client, res, key, http.StatusCreated)
		if err != nil {
			return err
		}
		second, err := postReply(ctx, client, res, key, http.StatusOK)
		if err != nil {
			return err
		}
		if first.ID != second.ID {
			stats.Mismatches++
			log.Warn(ctx, "idempotent replay returned a different chart",
				logger.String("first", first.ID), logger.String("second", second.ID))
			continue
		}
		if err := sameProfile(res.Reply, first); err != nil {
			stats.Mismatches++
			log.Warn(ctx, "recomputed chart scored differently",
				logger.Int("index", res.Index), logger.Error(err))
			continue
		}
		stats.ReplaysVerified++
	}
	return nil
}

func postReply(ctx context.Context, client *HTTPClient, res Result, key string, want int) (snapshotReply, error) {
	var reply snapshotReply
	status, header, body, err := client.Post(ctx, "/charts", res.Input, key)
	if err != nil {
		return reply, fmt.Errorf("replay input %d: %w", res.Index, err)
	}
	if status != want {
		return reply, fmt.Errorf("replay input %d: status %d, want %d", res.Index, status, want)
	}
	if want == http.StatusOK && header.Get(headerReplayed) != "true" {
		return reply, fmt.Errorf("replay input %d: missing %s header", res.Index, headerReplayed)
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return reply, fmt.Errorf("decode replay %d: %w", res.Index, err)
	}
	return reply, nil
}

// sameProfile compares the scoring outputs of two snapshots.
func sameProfile(a, b snapshotReply) error {
	if a.Profile.CareerArchetype != b.Profile.CareerArchetype {
		return fmt.Errorf("career archetype %q != %q", a.Profile.CareerArchetype, b.Profile.CareerArchetype)
	}
	if a.Profile.InvestmentArchetype != b.Profile.InvestmentArchetype {
		return fmt.Errorf("investment archetype %q != %q", a.Profile.InvestmentArchetype, b.Profile.InvestmentArchetype)
	}
	if len(a.Profile.TopRoles) != len(b.Profile.TopRoles) {
		return fmt.Errorf("top roles %d != %d", len(a.Profile.TopRoles), len(b.Profile.TopRoles))
	}
	for i := range a.Profile.TopRoles {
		if a.Profile.TopRoles[i] != b.Profile.TopRoles[i] {
			return fmt.Errorf("top role %d: %v != %v", i, a.Profile.TopRoles[i], b.Profile.TopRoles[i])
		}
	}
	return nil
}
