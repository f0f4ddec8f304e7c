package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// MissionEventData records a mission lifecycle outcome.
type MissionEventData struct {
	Action    string // "completed", "failed", "reviewed"
	MissionID string
	Subject   string
	Branch    string
	Topic     string
	StudyType string
	Source    string
	Mood      string
	XP        float64 // XP credited to the player total
	Gold      int
	BranchXP  float64 // XP credited to the branch after permanent boosts
	TimeSpent int     // seconds
}

// MissionEventRecord is a persisted MissionEventData.
type MissionEventRecord struct {
	MissionEventData
	Sequence  int64
	Timestamp time.Time
}

// UnlockEventData records a branch or topic becoming unlocked.
type UnlockEventData struct {
	Kind    string // "branch" or "topic"
	Subject string
	Branch  string
	Topic   string
	Auto    bool
}

// UnlockEventRecord is a persisted UnlockEventData.
type UnlockEventRecord struct {
	UnlockEventData
	Sequence  int64
	Timestamp time.Time
}

// MasteryEventData records a mastery goal change, including remasters.
type MasteryEventData struct {
	Subject       string
	Branch        string
	Level         string
	RemasterCount int
	BoostGranted  float64
}

// AchievementEventData records a newly unlocked achievement.
type AchievementEventData struct {
	AchievementID string
	Name          string
	Tier          string
}

// EventRepo provides append and query access to progression events.
type EventRepo interface {
	AppendMissionEvent(ctx context.Context, data MissionEventData) error
	AppendUnlockEvent(ctx context.Context, data UnlockEventData) error
	AppendMasteryEvent(ctx context.Context, data MasteryEventData) error
	AppendAchievementEvent(ctx context.Context, data AchievementEventData) error

	// QueryMissionEvents returns mission events, newest first.
	QueryMissionEvents(ctx context.Context, opts QueryOpts) ([]MissionEventRecord, error)

	// QueryUnlockEvents returns unlock events, newest first.
	QueryUnlockEvents(ctx context.Context, opts QueryOpts) ([]UnlockEventRecord, error)

	// LatestSequence returns the most recently assigned sequence number.
	LatestSequence(ctx context.Context) (int64, error)
}

// Snapshot represents a point-in-time capture of game state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages game state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int, error)
}
