package store

// SnapshotData captures the full game state at a point in time.
// Timestamps are RFC3339 strings so the JSON stays readable.
type SnapshotData struct {
	Version         int                 `json:"version"`
	Player          *PlayerSnapshotData `json:"player,omitempty"`
	Tree            *TreeSnapshotData   `json:"tree,omitempty"`
	Missions        []*MissionData      `json:"missions,omitempty"`
	ActiveMissionID string              `json:"active_mission_id,omitempty"`
}

// PlayerSnapshotData holds the progression-relevant player fields.
type PlayerSnapshotData struct {
	Gold                  int                             `json:"gold"`
	TotalXP               float64                         `json:"total_xp"`
	CheckInStreak         int                             `json:"check_in_streak"`
	LastMissionCompletion *string                         `json:"last_mission_completion,omitempty"`
	Stats                 map[string]int                  `json:"stats,omitempty"`
	BranchMastery         map[string]string               `json:"branch_mastery,omitempty"`
	Dungeons              map[string]*DungeonProgressData `json:"dungeons,omitempty"`
	Archive               []*MissionData                  `json:"archive,omitempty"`
	PermanentXPBoosts     map[string]float64              `json:"permanent_xp_boosts,omitempty"`
	MonsterValue          float64                         `json:"monster_value"`
	Titles                []string                        `json:"titles,omitempty"`
	Achievements          map[string]string               `json:"achievements,omitempty"`
	AchievementProgress   map[string]int                  `json:"achievement_progress,omitempty"`
}

// DungeonProgressData is the persisted stage counter for one dungeon.
type DungeonProgressData struct {
	DungeonID string `json:"dungeon_id"`
	Stage     int    `json:"stage"`
	Completed bool   `json:"completed"`
}

// TreeSnapshotData holds per-branch dynamic state keyed by branch ID.
type TreeSnapshotData struct {
	Branches map[string]*BranchStateData `json:"branches"`
}

// BranchStateData is the dynamic unlock/progress state of one branch.
type BranchStateData struct {
	Unlocked          bool     `json:"unlocked"`
	AutoUnlocked      bool     `json:"auto_unlocked"`
	CurrentXP         float64  `json:"current_xp"`
	TotalTimeSpent    int      `json:"total_time_spent"`
	MissionsCompleted int      `json:"missions_completed"`
	RemasterCount     int      `json:"remaster_count"`
	UnlockedTopics    []string `json:"unlocked_topics,omitempty"`
}

// MissionData is the persisted form of a mission.
type MissionData struct {
	ID              string  `json:"id"`
	Subject         string  `json:"subject"`
	Branch          string  `json:"branch"`
	Topic           string  `json:"topic,omitempty"`
	StudyType       string  `json:"study_type"`
	TotalDuration   int     `json:"total_duration"`
	TimeRemaining   int     `json:"time_remaining"`
	Status          string  `json:"status"`
	IsPomodoro      bool    `json:"is_pomodoro,omitempty"`
	PomodoroCycle   int     `json:"pomodoro_cycle,omitempty"`
	IsBreakTime     bool    `json:"is_break_time,omitempty"`
	XPReward        float64 `json:"xp_reward,omitempty"`
	GoldReward      int     `json:"gold_reward,omitempty"`
	Source          string  `json:"source"`
	DungeonID       string  `json:"dungeon_id,omitempty"`
	DungeonStage    int     `json:"dungeon_stage,omitempty"`
	ActualTimeSpent int     `json:"actual_time_spent,omitempty"`
	RewardsApplied  bool    `json:"rewards_applied,omitempty"`
	CreatedAt       string  `json:"created_at"`
	ScheduledFor    *string `json:"scheduled_for,omitempty"`
	CompletionDate  *string `json:"completion_date,omitempty"`
	Rating          int     `json:"rating,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
}
