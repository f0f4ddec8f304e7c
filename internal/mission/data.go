package mission

import (
	"fmt"
	"time"

	"github.com/abhisek/studyquest/internal/store"
)

// ToData converts a mission into its persisted form.
func ToData(m *Mission) *store.MissionData {
	return &store.MissionData{
		ID:              m.ID,
		Subject:         m.Subject,
		Branch:          m.Branch,
		Topic:           m.Topic,
		StudyType:       string(m.StudyType),
		TotalDuration:   m.TotalDuration,
		TimeRemaining:   m.TimeRemaining,
		Status:          string(m.Status),
		IsPomodoro:      m.IsPomodoro,
		PomodoroCycle:   m.PomodoroCycle,
		IsBreakTime:     m.IsBreakTime,
		XPReward:        m.XPReward,
		GoldReward:      m.GoldReward,
		Source:          string(m.Source),
		DungeonID:       m.DungeonID,
		DungeonStage:    m.DungeonStage,
		ActualTimeSpent: m.ActualTimeSpent,
		RewardsApplied:  m.RewardsApplied,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339Nano),
		ScheduledFor:    formatTime(m.ScheduledFor),
		CompletionDate:  formatTime(m.CompletionDate),
		Rating:          m.Rating,
		Notes:           m.Notes,
		ReviewedAt:      formatTime(m.ReviewedAt),
	}
}

// FromData rebuilds a mission from its persisted form.
func FromData(d *store.MissionData) (*Mission, error) {
	created, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("mission %s created_at: %w", d.ID, err)
	}
	m := &Mission{
		ID:              d.ID,
		Subject:         d.Subject,
		Branch:          d.Branch,
		Topic:           d.Topic,
		StudyType:       StudyType(d.StudyType),
		Source:          Source(d.Source),
		DungeonID:       d.DungeonID,
		DungeonStage:    d.DungeonStage,
		TotalDuration:   d.TotalDuration,
		TimeRemaining:   d.TimeRemaining,
		Status:          Status(d.Status),
		IsPomodoro:      d.IsPomodoro,
		PomodoroCycle:   d.PomodoroCycle,
		IsBreakTime:     d.IsBreakTime,
		ActualTimeSpent: d.ActualTimeSpent,
		XPReward:        d.XPReward,
		GoldReward:      d.GoldReward,
		RewardsApplied:  d.RewardsApplied,
		CreatedAt:       created,
		Rating:          d.Rating,
		Notes:           d.Notes,
	}
	if m.ScheduledFor, err = parseTime(d.ScheduledFor); err != nil {
		return nil, fmt.Errorf("mission %s scheduled_for: %w", d.ID, err)
	}
	if m.CompletionDate, err = parseTime(d.CompletionDate); err != nil {
		return nil, fmt.Errorf("mission %s completion_date: %w", d.ID, err)
	}
	if m.ReviewedAt, err = parseTime(d.ReviewedAt); err != nil {
		return nil, fmt.Errorf("mission %s reviewed_at: %w", d.ID, err)
	}
	return m, nil
}

// SnapshotData exports the open missions and the running timer's mission ID.
func (b *Board) SnapshotData() ([]*store.MissionData, string) {
	out := make([]*store.MissionData, 0, len(b.order))
	for _, m := range b.List() {
		out = append(out, ToData(m))
	}
	return out, b.running
}

// Restore replaces the board's contents with persisted missions. A running
// ID that does not match an in-progress mission is dropped.
func (b *Board) Restore(data []*store.MissionData, running string) error {
	missions := make(map[string]*Mission, len(data))
	order := make([]string, 0, len(data))
	for _, d := range data {
		m, err := FromData(d)
		if err != nil {
			return err
		}
		missions[m.ID] = m
		order = append(order, m.ID)
	}
	b.missions = missions
	b.order = order
	b.running = ""
	if m, ok := missions[running]; ok && m.Status == StatusInProgress {
		b.running = running
	}
	return nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
