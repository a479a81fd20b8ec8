package nakama

import (
	"context"
	"testing"

	"spades/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// storageModule keeps storage objects in memory and enforces versions like Nakama.
// Only the storage calls are implemented.
type storageModule struct {
	runtime.NakamaModule

	objects  map[string]*api.StorageObject
	versions int
	// conflicts forces this many writes to fail with a version mismatch.
	conflicts int
	writes    int
}

func newStorageModule() *storageModule {
	return &storageModule{objects: make(map[string]*api.StorageObject)}
}

func storageID(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (m *storageModule) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := m.objects[storageID(r.Collection, r.Key, r.UserID)]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (m *storageModule) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	var acks []*api.StorageObjectAck
	for _, w := range writes {
		m.writes++
		id := storageID(w.Collection, w.Key, w.UserID)
		existing, exists := m.objects[id]
		if m.conflicts > 0 {
			m.conflicts--
			return nil, runtime.ErrStorageRejectedVersion
		}
		switch {
		case w.Version == "*" && exists:
			return nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!exists || existing.Version != w.Version):
			return nil, runtime.ErrStorageRejectedVersion
		}
		m.versions++
		version := string(rune('a' + m.versions))
		m.objects[id] = &api.StorageObject{
			Collection: w.Collection,
			Key:        w.Key,
			UserId:     w.UserID,
			Value:      w.Value,
			Version:    version,
		}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: version})
	}
	return acks, nil
}

func TestStatsAdapter_InitStatsOnce(t *testing.T) {
	adapter := NewNakamaStatsAdapter(newStorageModule())

	created, err := adapter.InitStats(context.Background(), "user-1")
	if err != nil || !created {
		t.Fatalf("InitStats() = %t, %v, want created", created, err)
	}
	created, err = adapter.InitStats(context.Background(), "user-1")
	if err != nil || created {
		t.Fatalf("second InitStats() = %t, %v, want existing", created, err)
	}
	if _, err := adapter.InitStats(context.Background(), ""); err == nil {
		t.Fatalf("InitStats(\"\") succeeded, want error")
	}
}

func TestStatsAdapter_RecordResults(t *testing.T) {
	nk := newStorageModule()
	adapter := NewNakamaStatsAdapter(nk)
	ctx := context.Background()

	if _, err := adapter.InitStats(ctx, "user-1"); err != nil {
		t.Fatalf("InitStats() error = %v", err)
	}

	err := adapter.RecordResults(ctx, []ports.GameResult{
		{UserID: "user-1", Won: true, TeamScore: 520, Rounds: 6},
		{UserID: "user-2", Won: false, TeamScore: 310, Rounds: 6},
	})
	if err != nil {
		t.Fatalf("RecordResults() error = %v", err)
	}

	stats, err := adapter.GetStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	want := ports.PlayerStats{GamesPlayed: 1, GamesWon: 1, RoundsPlayed: 6, BestScore: 520}
	if stats != want {
		t.Fatalf("GetStats(user-1) = %+v, want %+v", stats, want)
	}

	// user-2 had no record; the first result creates it.
	stats, err = adapter.GetStats(ctx, "user-2")
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.GamesPlayed != 1 || stats.GamesWon != 0 || stats.BestScore != 310 {
		t.Fatalf("GetStats(user-2) = %+v", stats)
	}
}

func TestStatsAdapter_RetriesVersionConflicts(t *testing.T) {
	nk := newStorageModule()
	adapter := NewNakamaStatsAdapter(nk)
	ctx := context.Background()

	nk.conflicts = statsWriteAttempts - 1
	if err := adapter.RecordResults(ctx, []ports.GameResult{{UserID: "user-1", Aborted: true, Rounds: 2}}); err != nil {
		t.Fatalf("RecordResults() error = %v", err)
	}
	stats, _ := adapter.GetStats(ctx, "user-1")
	if stats.GamesAborted != 1 || stats.GamesPlayed != 1 {
		t.Fatalf("GetStats() = %+v, want one aborted game", stats)
	}

	nk.conflicts = statsWriteAttempts
	if err := adapter.RecordResults(ctx, []ports.GameResult{{UserID: "user-1", Won: true}}); err == nil {
		t.Fatalf("RecordResults() succeeded despite persistent conflicts")
	}
}

func TestStatsAdapter_GetStatsMissing(t *testing.T) {
	adapter := NewNakamaStatsAdapter(newStorageModule())
	stats, err := adapter.GetStats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats != (ports.PlayerStats{}) {
		t.Fatalf("GetStats() = %+v, want empty", stats)
	}
}

func TestExtractUserIDFromToken(t *testing.T) {
	// Header and claims {"uid":"user-42"}; the signature is not checked.
	token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1aWQiOiJ1c2VyLTQyIn0.c2ln"
	got, err := extractUserIDFromToken(token)
	if err != nil {
		t.Fatalf("extractUserIDFromToken() error = %v", err)
	}
	if got != "user-42" {
		t.Fatalf("extractUserIDFromToken() = %q, want user-42", got)
	}
	if _, err := extractUserIDFromToken("not-a-token"); err == nil {
		t.Fatalf("extractUserIDFromToken(garbage) succeeded, want error")
	}
}
