package mission

import (
	"fmt"
	"time"

	"github.com/abhisek/studyquest/internal/apperr"
	"go.uber.org/zap"
)

// Board holds the open missions and owns the single running timer. The
// running mission is either studying, in which case it occupies the active
// slot, or on a Pomodoro break, in which case the slot is empty while its
// break still counts down.
type Board struct {
	missions map[string]*Mission
	order    []string
	running  string
	cfg      PomodoroConfig
	logger   *zap.Logger
}

// NewBoard creates an empty board.
func NewBoard(cfg PomodoroConfig, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{
		missions: make(map[string]*Mission),
		cfg:      cfg,
		logger:   logger,
	}
}

// Pomodoro returns the board's block lengths.
func (b *Board) Pomodoro() PomodoroConfig {
	return b.cfg
}

// Add puts a new mission on the board.
func (b *Board) Add(m *Mission) error {
	if _, ok := b.missions[m.ID]; ok {
		return apperr.Invalid("id", fmt.Sprintf("mission %s already exists", m.ID))
	}
	b.missions[m.ID] = m
	b.order = append(b.order, m.ID)
	return nil
}

// Get returns the mission with the given ID.
func (b *Board) Get(id string) (*Mission, bool) {
	m, ok := b.missions[id]
	if !ok {
		b.logger.Debug("mission not found", zap.String("mission_id", id))
	}
	return m, ok
}

func (b *Board) lookup(id string) (*Mission, error) {
	m, ok := b.Get(id)
	if !ok {
		return nil, apperr.NotFound("mission", id)
	}
	return m, nil
}

// List returns the missions in the order they were added.
func (b *Board) List() []*Mission {
	out := make([]*Mission, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.missions[id])
	}
	return out
}

// Remove drops a mission from the board, releasing the timer if it held it.
func (b *Board) Remove(id string) {
	if _, ok := b.missions[id]; !ok {
		return
	}
	delete(b.missions, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if b.running == id {
		b.running = ""
	}
}

// Active returns the mission occupying the active study slot.
func (b *Board) Active() (*Mission, bool) {
	m, ok := b.missions[b.running]
	if !ok || m.IsBreakTime {
		return nil, false
	}
	return m, true
}

// Running returns the mission whose timer is ticking, studying or on break.
func (b *Board) Running() (*Mission, bool) {
	m, ok := b.missions[b.running]
	return m, ok
}

// Start begins or resumes a mission, pausing whatever timer was running.
// It returns the mission that was paused to make room, if any.
func (b *Board) Start(id string) (paused *Mission, err error) {
	m, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	switch m.Status {
	case StatusPending, StatusScheduled, StatusPaused:
	case StatusInProgress:
		if b.running == id {
			return nil, nil
		}
	default:
		return nil, apperr.Invalid("status", fmt.Sprintf("cannot start a %s mission", m.Status))
	}

	if cur, ok := b.Running(); ok && cur.ID != id {
		cur.Status = StatusPaused
		paused = cur
		b.logger.Debug("mission paused for new start",
			zap.String("paused", cur.ID), zap.String("started", id))
	}
	m.begin(b.cfg)
	b.running = id
	return paused, nil
}

// Pause stops an in-progress mission without resetting its countdown.
func (b *Board) Pause(id string) error {
	m, err := b.lookup(id)
	if err != nil {
		return err
	}
	if m.Status != StatusInProgress {
		return apperr.Invalid("status", fmt.Sprintf("cannot pause a %s mission", m.Status))
	}
	m.Status = StatusPaused
	if b.running == id {
		b.running = ""
	}
	return nil
}

// Schedule marks a pending mission for a later start.
func (b *Board) Schedule(id string, at time.Time) error {
	m, err := b.lookup(id)
	if err != nil {
		return err
	}
	if m.Status != StatusPending && m.Status != StatusScheduled {
		return apperr.Invalid("status", fmt.Sprintf("cannot schedule a %s mission", m.Status))
	}
	m.Status = StatusScheduled
	m.ScheduledFor = &at
	return nil
}

// Fail abandons a mission.
func (b *Board) Fail(id string) (*Mission, error) {
	m, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	if m.Status.Terminal() || m.Status == StatusFailed {
		return nil, apperr.Invalid("status", fmt.Sprintf("cannot fail a %s mission", m.Status))
	}
	m.Status = StatusFailed
	m.IsBreakTime = false
	if b.running == id {
		b.running = ""
	}
	return m, nil
}

// Retry returns a failed or interrupted mission to pending with a fresh
// countdown.
func (b *Board) Retry(id string) error {
	m, err := b.lookup(id)
	if err != nil {
		return err
	}
	if m.Status.Terminal() {
		return apperr.Invalid("status", "cannot retry a completed mission")
	}
	if b.running == id {
		b.running = ""
	}
	m.Status = StatusPending
	m.ScheduledFor = nil
	m.ActualTimeSpent = 0
	m.resetTimer(b.cfg)
	return nil
}

// Finish completes a started mission before its countdown runs out.
func (b *Board) Finish(id string, now time.Time) (*Mission, error) {
	m, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	switch m.Status {
	case StatusCompleted:
		return m, nil
	case StatusInProgress, StatusPaused:
	default:
		return nil, apperr.Invalid("status", fmt.Sprintf("cannot finish a %s mission", m.Status))
	}
	m.markCompleted(now)
	if b.running == id {
		b.running = ""
	}
	return m, nil
}

// Tick advances the running timer by one second. It returns nil when no
// timer is running.
func (b *Board) Tick(now time.Time) *TickResult {
	m, ok := b.Running()
	if !ok {
		return nil
	}
	ev := m.tick(b.cfg, now)
	if ev == TickCompleted {
		b.running = ""
	}
	if ev != TickNone {
		b.logger.Debug("mission timer transition",
			zap.String("mission_id", m.ID),
			zap.Stringer("event", ev),
			zap.Int("cycle", m.PomodoroCycle))
	}
	return &TickResult{Mission: m, Event: ev}
}

// TickResult reports what a tick did to the running mission.
type TickResult struct {
	Mission *Mission
	Event   TickEvent
}
