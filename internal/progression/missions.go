package progression

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/store"
	"go.uber.org/zap"
)

// AddMission creates a mission and puts it on the board. The branch must
// exist in the tree.
func (c *Coordinator) AddMission(p mission.Params) (*mission.Mission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addMission(p)
}

func (c *Coordinator) addMission(p mission.Params) (*mission.Mission, error) {
	if _, ok := c.tree.FindBranchByName(p.Branch, p.Subject); !ok {
		return nil, apperr.NotFound("branch", p.Branch)
	}
	m, err := mission.New(p, c.board.Pomodoro(), c.now())
	if err != nil {
		return nil, err
	}
	if err := c.board.Add(m); err != nil {
		return nil, err
	}
	c.logger.Debug("mission added", zap.String("mission_id", m.ID), zap.String("branch", m.Branch))
	return copyMission(m), nil
}

// AddDungeonMission creates a mission for the next uncleared stage of a
// dungeon, studied against the given branch. Only one open mission may
// attempt a given stage.
func (c *Coordinator) AddDungeonMission(dungeonID, subject, branch string) (*mission.Mission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.dungeons.Get(dungeonID)
	if !ok {
		return nil, apperr.NotFound("dungeon", dungeonID)
	}
	progress := c.player.DungeonProgress(dungeonID)
	stage, ok := progress.NextStage(d)
	if !ok {
		return nil, apperr.Invalid("dungeon", d.Name+" is already cleared")
	}
	for _, open := range c.board.List() {
		if open.Source == mission.SourceDungeon && open.DungeonID == dungeonID && open.DungeonStage == progress.Stage {
			return nil, apperr.Invalid("dungeon",
				fmt.Sprintf("stage %d of %s already has mission %s", progress.Stage+1, d.Name, open.ID))
		}
	}
	return c.addMission(mission.Params{
		Subject:      subject,
		Branch:       branch,
		StudyType:    stage.StudyType,
		Duration:     stage.RequiredDuration,
		Source:       mission.SourceDungeon,
		DungeonID:    dungeonID,
		DungeonStage: progress.Stage,
	})
}

// Missions returns copies of the open missions.
func (c *Coordinator) Missions() []*mission.Mission {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*mission.Mission
	for _, m := range c.board.List() {
		out = append(out, copyMission(m))
	}
	return out
}

// Mission returns a copy of an open or archived mission.
func (c *Coordinator) Mission(id string) (*mission.Mission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.board.Get(id); ok {
		return copyMission(m), true
	}
	if m, ok := c.player.Archived(id); ok {
		return copyMission(m), true
	}
	return nil, false
}

// ActiveMission returns a copy of the mission holding the active slot.
func (c *Coordinator) ActiveMission() (*mission.Mission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.board.Active()
	return copyMission(m), ok
}

// RunningMission returns a copy of the mission whose timer is ticking,
// including one on a Pomodoro break.
func (c *Coordinator) RunningMission() (*mission.Mission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.board.Running()
	return copyMission(m), ok
}

// StartMission starts or resumes a mission, pausing any other running one.
func (c *Coordinator) StartMission(id string) (*mission.Mission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	paused, err := c.board.Start(id)
	if err != nil {
		return nil, err
	}
	if paused != nil {
		c.logger.Info("mission paused", zap.String("mission_id", paused.ID), zap.String("reason", "another mission started"))
	}
	m, _ := c.board.Get(id)
	return copyMission(m), nil
}

// PauseMission pauses an in-progress mission.
func (c *Coordinator) PauseMission(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Pause(id)
}

// ScheduleMission marks a pending mission for a later start.
func (c *Coordinator) ScheduleMission(id string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Schedule(id, at)
}

// RetryMission returns a failed or interrupted mission to pending.
func (c *Coordinator) RetryMission(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Retry(id)
}

// FailMission abandons a mission and feeds the procrastination monster.
func (c *Coordinator) FailMission(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.board.Fail(id)
	if err != nil {
		return err
	}
	c.player.AdjustMonster(c.monster.FailurePenalty)
	c.logger.Info("mission failed",
		zap.String("mission_id", m.ID),
		zap.Float64("monster", c.player.MonsterValue))
	c.recordMission(ctx, store.MissionEventData{
		Action:    "failed",
		MissionID: m.ID,
		Subject:   m.Subject,
		Branch:    m.Branch,
		Topic:     m.Topic,
		StudyType: string(m.StudyType),
		Source:    string(m.Source),
		Mood:      string(c.player.Mood()),
		TimeSpent: m.ActualTimeSpent,
	})
	return nil
}

// TickOutcome reports one tick of the running timer.
type TickOutcome struct {
	Mission    *mission.Mission
	Event      mission.TickEvent
	Completion *Completion // set when Event is TickCompleted
}

// Tick advances the running timer by one second and completes the mission
// when its countdown finishes. It returns nil when nothing is running.
func (c *Coordinator) Tick(ctx context.Context) (*TickOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.board.Tick(c.now())
	if res == nil {
		return nil, nil
	}
	out := &TickOutcome{Mission: copyMission(res.Mission), Event: res.Event}
	if res.Event != mission.TickCompleted {
		return out, nil
	}
	comp, err := c.complete(ctx, res.Mission)
	if err != nil {
		return out, err
	}
	out.Completion = comp
	out.Mission = copyMission(comp.Mission)
	return out, nil
}

// Run ticks every interval until ctx is done, handing each outcome to fn.
// Ticks with nothing running are skipped.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration, fn func(*TickOutcome)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			out, err := c.Tick(ctx)
			if err != nil {
				return err
			}
			if out != nil && fn != nil {
				fn(out)
			}
		}
	}
}
