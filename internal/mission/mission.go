// Package mission models study missions and their countdown state machine,
// including Pomodoro interval cycling and the single active-timer slot.
package mission

import (
	"fmt"
	"time"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/google/uuid"
)

// Status is a mission's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Source records which flow created a mission.
type Source string

const (
	SourceManual    Source = "manual"
	SourceAutomatic Source = "automatic"
	SourceDungeon   Source = "dungeon"
	SourceFamiliar  Source = "familiar"
)

// StudyType is the kind of study activity a mission represents.
type StudyType string

const (
	StudyDerivations          StudyType = "derivations"
	StudyDesigningExperiments StudyType = "designing-experiments"
	StudyEssayWriting         StudyType = "essay-writing"
	StudyProblemSets          StudyType = "problem-sets"
	StudyFlashcards           StudyType = "flashcards"
	StudyReading              StudyType = "reading"
	StudyReviewingNotes       StudyType = "reviewing-notes"
	StudyWatchingVideo        StudyType = "watching-video"
)

// AllStudyTypes returns every study type in display order.
func AllStudyTypes() []StudyType {
	return []StudyType{
		StudyDerivations, StudyDesigningExperiments, StudyEssayWriting,
		StudyProblemSets, StudyFlashcards, StudyReading,
		StudyReviewingNotes, StudyWatchingVideo,
	}
}

// ParseStudyType converts user input into a StudyType.
func ParseStudyType(s string) (StudyType, error) {
	for _, st := range AllStudyTypes() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperr.Invalid("study_type", fmt.Sprintf("unknown study type %q", s))
}

// Effortful reports whether the study type earns the effort XP bonus.
func (s StudyType) Effortful() bool {
	switch s {
	case StudyDerivations, StudyDesigningExperiments, StudyEssayWriting:
		return true
	}
	return false
}

// Passive reports whether the study type earns reduced XP.
func (s StudyType) Passive() bool {
	return s == StudyReviewingNotes || s == StudyWatchingVideo
}

// PomodoroConfig holds the study and break block lengths in seconds.
type PomodoroConfig struct {
	Study int
	Break int
}

// DefaultPomodoro returns 25 minute study blocks with 5 minute breaks.
func DefaultPomodoro() PomodoroConfig {
	return PomodoroConfig{Study: 1500, Break: 300}
}

// Mission is a timed study task against one topic of a branch.
type Mission struct {
	ID           string
	Subject      string
	Branch       string
	Topic        string
	StudyType    StudyType
	Source       Source
	DungeonID    string // set when Source is SourceDungeon
	DungeonStage int    // zero-based stage index the mission attempts

	TotalDuration int // seconds
	TimeRemaining int // seconds left in the current block
	Status        Status

	IsPomodoro    bool
	PomodoroCycle int // 1-based study block, 0 before the first start
	IsBreakTime   bool

	// ActualTimeSpent counts seconds actually studied, excluding breaks.
	ActualTimeSpent int

	// Rewards are fixed once RewardsApplied is set.
	XPReward       float64
	GoldReward     int
	RewardsApplied bool

	CreatedAt      time.Time
	ScheduledFor   *time.Time
	CompletionDate *time.Time

	Rating     int
	Notes      string
	ReviewedAt *time.Time
}

// Params describes a mission to create.
type Params struct {
	Subject      string
	Branch       string
	Topic        string
	StudyType    StudyType
	Duration     int // seconds
	Pomodoro     bool
	Source       Source
	DungeonID    string
	DungeonStage int
}

// New validates p and returns a pending mission with a fresh ID.
// Pomodoro mode requires the mission to span at least one study block.
func New(p Params, cfg PomodoroConfig, now time.Time) (*Mission, error) {
	if p.Branch == "" || p.Subject == "" {
		return nil, apperr.Invalid("branch", "subject and branch are required")
	}
	if p.Duration <= 0 {
		return nil, apperr.Invalid("duration", "must be positive")
	}
	if p.Pomodoro && p.Duration < cfg.Study {
		return nil, apperr.Invalid("pomodoro",
			fmt.Sprintf("duration %ds is shorter than one %ds study block", p.Duration, cfg.Study))
	}
	if p.Source == "" {
		p.Source = SourceManual
	}
	if p.Source == SourceDungeon && p.DungeonID == "" {
		return nil, apperr.Invalid("dungeon_id", "required for dungeon missions")
	}

	m := &Mission{
		ID:            uuid.New().String(),
		Subject:       p.Subject,
		Branch:        p.Branch,
		Topic:         p.Topic,
		StudyType:     p.StudyType,
		Source:        p.Source,
		DungeonID:     p.DungeonID,
		DungeonStage:  p.DungeonStage,
		TotalDuration: p.Duration,
		Status:        StatusPending,
		IsPomodoro:    p.Pomodoro,
		CreatedAt:     now,
	}
	m.resetTimer(cfg)
	return m, nil
}

// Elapsed returns the seconds studied so far toward TotalDuration.
func (m *Mission) Elapsed() int {
	return m.ActualTimeSpent
}

// resetTimer rewinds the countdown to the first block.
func (m *Mission) resetTimer(cfg PomodoroConfig) {
	m.TimeRemaining = m.TotalDuration
	if m.IsPomodoro {
		m.TimeRemaining = min(m.TotalDuration, cfg.Study)
	}
	m.PomodoroCycle = 0
	m.IsBreakTime = false
}

// begin moves the mission into the ticking state.
func (m *Mission) begin(cfg PomodoroConfig) {
	m.Status = StatusInProgress
	if m.IsPomodoro && m.PomodoroCycle == 0 {
		m.TimeRemaining = min(m.TotalDuration, cfg.Study)
		m.PomodoroCycle = 1
	}
}

// TickEvent is the transition produced by one timer tick.
type TickEvent int

const (
	TickNone TickEvent = iota
	TickBreakStarted
	TickBreakEnded
	TickCompleted
)

func (e TickEvent) String() string {
	switch e {
	case TickBreakStarted:
		return "break-started"
	case TickBreakEnded:
		return "break-ended"
	case TickCompleted:
		return "completed"
	default:
		return "none"
	}
}

// tick advances the countdown by one second.
func (m *Mission) tick(cfg PomodoroConfig, now time.Time) TickEvent {
	if m.TimeRemaining > 0 {
		m.TimeRemaining--
		if !m.IsBreakTime {
			m.ActualTimeSpent++
		}
	}
	if m.TimeRemaining > 0 {
		return TickNone
	}

	switch {
	case !m.IsPomodoro:
		m.markCompleted(now)
		return TickCompleted
	case !m.IsBreakTime:
		if m.PomodoroCycle*cfg.Study >= m.TotalDuration {
			m.markCompleted(now)
			return TickCompleted
		}
		m.IsBreakTime = true
		m.TimeRemaining = cfg.Break
		return TickBreakStarted
	default:
		m.IsBreakTime = false
		m.PomodoroCycle++
		remaining := m.TotalDuration - (m.PomodoroCycle-1)*cfg.Study
		m.TimeRemaining = min(remaining, cfg.Study)
		return TickBreakEnded
	}
}

func (m *Mission) markCompleted(now time.Time) {
	m.Status = StatusCompleted
	m.IsBreakTime = false
	m.CompletionDate = &now
}
