package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Sequence:  42,
		Timestamp: now,
		Data: SnapshotData{
			Version: 1,
			Player:  &PlayerSnapshotData{Gold: 120, TotalXP: 67.5, PermanentXPBoosts: map[string]float64{"Mathematics": 0.005}},
			Tree: &TreeSnapshotData{Branches: map[string]*BranchStateData{
				"algebra-1": {Unlocked: true, CurrentXP: 10, UnlockedTopics: []string{"algebra-1/linear-equations"}},
			}},
			Missions:        []*MissionData{{ID: "m1", Status: "paused", TimeRemaining: 600}},
			ActiveMissionID: "m1",
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", snap.Timestamp, now)
	}
	if snap.Data.Player == nil || snap.Data.Player.Gold != 120 {
		t.Fatalf("player data not restored: %+v", snap.Data.Player)
	}
	if got := snap.Data.Player.PermanentXPBoosts["Mathematics"]; got != 0.005 {
		t.Errorf("boost = %v, want 0.005", got)
	}
	if b := snap.Data.Tree.Branches["algebra-1"]; b == nil || !b.Unlocked || len(b.UnlockedTopics) != 1 {
		t.Errorf("branch state not restored: %+v", b)
	}
	if snap.Data.ActiveMissionID != "m1" || len(snap.Data.Missions) != 1 {
		t.Errorf("missions not restored: active=%q n=%d", snap.Data.ActiveMissionID, len(snap.Data.Missions))
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: i + 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 3 {
		t.Errorf("sequence = %d, want 3", snap.Sequence)
	}
	if snap.Data.Version != 3 {
		t.Errorf("data.version = %d, want 3", snap.Data.Version)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 7 {
		t.Errorf("latest sequence after prune = %d, want 7", snap.Sequence)
	}
}

func TestSnapshotPruneFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, &Snapshot{Sequence: 1, Timestamp: time.Now()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestEventSequenceIsGlobal(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendMissionEvent(ctx, MissionEventData{
		Action: "completed", MissionID: "m1", Subject: "Mathematics", Branch: "Algebra I",
		StudyType: "reviewingNotes", Source: "manual", Mood: "content", XP: 67.5, Gold: 15, BranchXP: 67.5, TimeSpent: 1800,
	}); err != nil {
		t.Fatalf("append mission event: %v", err)
	}
	if err := repo.AppendUnlockEvent(ctx, UnlockEventData{Kind: "topic", Subject: "Mathematics", Branch: "Algebra I", Topic: "Linear Equations"}); err != nil {
		t.Fatalf("append unlock event: %v", err)
	}
	if err := repo.AppendMasteryEvent(ctx, MasteryEventData{Subject: "Mathematics", Branch: "Algebra I", Level: "proficient", RemasterCount: 1, BoostGranted: 0.005}); err != nil {
		t.Fatalf("append mastery event: %v", err)
	}
	if err := repo.AppendAchievementEvent(ctx, AchievementEventData{AchievementID: "first_mission", Name: "First Steps", Tier: "common"}); err != nil {
		t.Fatalf("append achievement event: %v", err)
	}

	missions, err := repo.QueryMissionEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query mission events: %v", err)
	}
	if len(missions) != 1 {
		t.Fatalf("got %d mission events, want 1", len(missions))
	}
	m := missions[0]
	if m.Sequence != 1 || m.XP != 67.5 || m.Gold != 15 || m.TimeSpent != 1800 || m.Mood != "content" {
		t.Errorf("unexpected mission record: %+v", m)
	}

	unlocks, err := repo.QueryUnlockEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query unlock events: %v", err)
	}
	if len(unlocks) != 1 || unlocks[0].Sequence != 2 || unlocks[0].Topic != "Linear Equations" {
		t.Errorf("unexpected unlock records: %+v", unlocks)
	}

	latest, err := repo.LatestSequence(ctx)
	if err != nil {
		t.Fatalf("latest sequence: %v", err)
	}
	if latest != 4 {
		t.Errorf("latest sequence = %d, want 4", latest)
	}
}

func TestQueryMissionEventsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendMissionEvent(ctx, MissionEventData{Action: "completed", MissionID: "m", Subject: "s", Branch: "b", Gold: i}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	tests := []struct {
		name string
		opts QueryOpts
		want []int64
	}{
		{"all newest first", QueryOpts{}, []int64{5, 4, 3, 2, 1}},
		{"limit", QueryOpts{Limit: 2}, []int64{5, 4}},
		{"after", QueryOpts{After: 3}, []int64{5, 4}},
		{"before", QueryOpts{Before: 3}, []int64{2, 1}},
		{"window", QueryOpts{After: 1, Before: 5}, []int64{4, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := repo.QueryMissionEvents(ctx, tt.opts)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(recs) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(recs), len(tt.want))
			}
			for i, r := range recs {
				if r.Sequence != tt.want[i] {
					t.Errorf("record %d sequence = %d, want %d", i, r.Sequence, tt.want[i])
				}
			}
		})
	}
}

func TestDefaultDBPathHonorsEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "sq.db")
	t.Setenv("STUDYQUEST_DB", p)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != p {
		t.Errorf("DefaultDBPath = %q, want %q", got, p)
	}
}
