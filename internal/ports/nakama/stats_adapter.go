package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"spades/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	statsCollection = "stats"
	statsKey        = "spades"

	// statsWriteAttempts bounds the read-modify-write loop when another match
	// updates the same record concurrently.
	statsWriteAttempts = 3
)

// NakamaStatsAdapter implements ports.StatsPort on Nakama storage, one object per user.
type NakamaStatsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(nk runtime.NakamaModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{nk: nk}
}

// InitStats writes an empty record unless one exists.
func (a *NakamaStatsAdapter) InitStats(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	err := a.write(ctx, userID, ports.PlayerStats{}, "*")
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create stats: %w", err)
	}
	return true, nil
}

// GetStats returns the stored record, or an empty one for users who have none.
func (a *NakamaStatsAdapter) GetStats(ctx context.Context, userID string) (ports.PlayerStats, error) {
	stats, _, err := a.read(ctx, userID)
	return stats, err
}

// RecordResults applies each result with an optimistic read-modify-write.
func (a *NakamaStatsAdapter) RecordResults(ctx context.Context, results []ports.GameResult) error {
	var errs []error
	for _, r := range results {
		if r.UserID == "" {
			continue
		}
		if err := a.record(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", r.UserID, err))
		}
	}
	return errors.Join(errs...)
}

func (a *NakamaStatsAdapter) record(ctx context.Context, r ports.GameResult) error {
	var err error
	for attempt := 0; attempt < statsWriteAttempts; attempt++ {
		stats, version, readErr := a.read(ctx, r.UserID)
		if readErr != nil {
			return readErr
		}
		if version == "" {
			// No record yet: only create, never overwrite a concurrent first write.
			version = "*"
		}
		stats.Apply(r)

		err = a.write(ctx, r.UserID, stats, version)
		if err == nil || !errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return err
		}
	}
	return fmt.Errorf("failed to record stats after %d attempts: %w", statsWriteAttempts, err)
}

func (a *NakamaStatsAdapter) read(ctx context.Context, userID string) (ports.PlayerStats, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: statsCollection,
		Key:        statsKey,
		UserID:     userID,
	}})
	if err != nil {
		return ports.PlayerStats{}, "", fmt.Errorf("failed to read stats: %w", err)
	}
	if len(objects) == 0 {
		return ports.PlayerStats{}, "", nil
	}

	var stats ports.PlayerStats
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &stats); err != nil {
		return ports.PlayerStats{}, "", fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return stats, objects[0].GetVersion(), nil
}

func (a *NakamaStatsAdapter) write(ctx context.Context, userID string, stats ports.PlayerStats, version string) error {
	value, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      statsCollection,
		Key:             statsKey,
		UserID:          userID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	return err
}

var _ ports.StatsPort = (*NakamaStatsAdapter)(nil)
