package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/alerting"
	"github.com/PresageLabs/PrediBench-sub000/internal/market"
	"github.com/PresageLabs/PrediBench-sub000/internal/storage"
)

type staticLeaderboard struct {
	entries []market.LeaderboardEntry
}

func (s *staticLeaderboard) Leaderboard(ctx context.Context) ([]market.LeaderboardEntry, error) {
	return s.entries, nil
}

type staticDecisions struct{}

func (s *staticDecisions) DecisionsByModel(ctx context.Context, modelID string) ([]market.Decision, error) {
	return []market.Decision{{ModelID: modelID, TargetDate: time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC)}}, nil
}

func (s *staticDecisions) DecisionsByDate(ctx context.Context, date time.Time) ([]market.Decision, error) {
	return nil, nil
}

type memorySnapshots struct {
	stored []storage.Snapshot
}

func (m *memorySnapshots) InsertSnapshot(ctx context.Context, snapshot storage.Snapshot) (storage.Snapshot, error) {
	m.stored = append(m.stored, snapshot)
	return snapshot, nil
}

func (m *memorySnapshots) ListRecentSnapshots(ctx context.Context, limit int) ([]storage.Snapshot, error) {
	return m.stored, nil
}

func (m *memorySnapshots) LatestSnapshot(ctx context.Context) (storage.Snapshot, bool, error) {
	if len(m.stored) == 0 {
		return storage.Snapshot{}, false, nil
	}
	return m.stored[len(m.stored)-1], true, nil
}

type memoryArchive struct {
	records []storage.DecisionRecord
}

func (m *memoryArchive) UpsertDecision(ctx context.Context, record storage.DecisionRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memoryArchive) CountDecisions(ctx context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

type recordingNotifier struct {
	changes []alerting.LeaderChange
}

func (r *recordingNotifier) Notify(ctx context.Context, change alerting.LeaderChange) error {
	r.changes = append(r.changes, change)
	return nil
}

func entry(id string, profit string) market.LeaderboardEntry {
	return market.LeaderboardEntry{ModelID: id, FinalProfit: decimal.RequireFromString(profit)}
}

func TestCaptureSnapshotArchives(t *testing.T) {
	leaderboard := &staticLeaderboard{entries: []market.LeaderboardEntry{
		entry("gpt-5", "4"),
		entry("grok-4", "7"),
	}}
	snapshots := &memorySnapshots{}
	archive := &memoryArchive{}

	svc := New(nil, leaderboard, &staticDecisions{}, snapshots, archive, nil, zerolog.Nop())

	bucket := time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)
	if err := svc.CaptureSnapshot(context.Background(), bucket); err != nil {
		t.Fatalf("capture should succeed: %v", err)
	}

	if len(snapshots.stored) != 1 {
		t.Fatalf("expected one stored snapshot, got %d", len(snapshots.stored))
	}
	stored := snapshots.stored[0]
	if stored.TopModelID != "grok-4" {
		t.Fatalf("leader should be the highest profit model, got %s", stored.TopModelID)
	}
	if stored.ModelCount != 2 {
		t.Fatalf("model count should be 2, got %d", stored.ModelCount)
	}
	if len(archive.records) != 2 {
		t.Fatalf("expected one archived decision per model, got %d", len(archive.records))
	}
}

func TestCaptureSnapshotNotifiesLeaderChange(t *testing.T) {
	leaderboard := &staticLeaderboard{entries: []market.LeaderboardEntry{
		entry("gpt-5", "4"),
	}}
	snapshots := &memorySnapshots{}
	notifier := &recordingNotifier{}

	svc := New(nil, leaderboard, &staticDecisions{}, snapshots, nil, notifier, zerolog.Nop())

	first := time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)
	if err := svc.CaptureSnapshot(context.Background(), first); err != nil {
		t.Fatalf("capture should succeed: %v", err)
	}
	if len(notifier.changes) != 0 {
		t.Fatal("first capture has no previous leader, no notification expected")
	}

	leaderboard.entries = []market.LeaderboardEntry{
		entry("gpt-5", "4"),
		entry("grok-4", "9"),
	}
	second := first.Add(time.Hour)
	if err := svc.CaptureSnapshot(context.Background(), second); err != nil {
		t.Fatalf("capture should succeed: %v", err)
	}

	if len(notifier.changes) != 1 {
		t.Fatalf("leader change should notify once, got %d", len(notifier.changes))
	}
	change := notifier.changes[0]
	if change.PreviousLeader != "gpt-5" || change.NewLeader != "grok-4" {
		t.Fatalf("unexpected change payload: %+v", change)
	}
}

func TestCaptureSnapshotEmptyLeaderboard(t *testing.T) {
	svc := New(nil, &staticLeaderboard{}, nil, nil, nil, nil, zerolog.Nop())
	if err := svc.CaptureSnapshot(context.Background(), time.Now()); err == nil {
		t.Fatal("empty leaderboard should be an error")
	}
}
