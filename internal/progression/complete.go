package progression

import (
	"context"
	"errors"

	"github.com/abhisek/studyquest/internal/achievements"
	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/dungeon"
	"github.com/abhisek/studyquest/internal/mastery"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/rewards"
	"github.com/abhisek/studyquest/internal/store"
	"go.uber.org/zap"
)

// Completion describes everything a mission completion changed.
type Completion struct {
	Mission  *mission.Mission
	Base     rewards.Reward
	Mood     rewards.Mood
	Credited rewards.Reward // after mood, added to the player totals
	BranchXP float64        // after permanent boosts, added to the branch
	Streak   int

	UnlockedTopics []string
	Achievements   []achievements.Achievement

	// DungeonCleared is set when this mission cleared a dungeon's final stage.
	DungeonCleared *dungeon.Dungeon
}

// CompleteMission finishes a started mission, applying its rewards exactly
// once. Submitting an already completed mission returns ErrAlreadyCompleted.
func (c *Coordinator) CompleteMission(ctx context.Context, id string) (*Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.board.Get(id)
	if !ok {
		if _, archived := c.player.Archived(id); archived {
			return nil, ErrAlreadyCompleted
		}
		return nil, apperr.NotFound("mission", id)
	}
	return c.complete(ctx, m)
}

// complete runs the completion sequence. Order matters: mood uses the
// pre-completion meter, the branch receives boosted XP while the player
// total keeps the mood-adjusted figure, and the archive write comes last.
func (c *Coordinator) complete(ctx context.Context, m *mission.Mission) (*Completion, error) {
	if m.RewardsApplied {
		return nil, ErrAlreadyCompleted
	}
	now := c.now()

	// 1. Stop the timer and release the active slot.
	if _, err := c.board.Finish(m.ID, now); err != nil {
		return nil, err
	}

	subject, _ := c.tree.Subject(m.Subject)
	branch, hasBranch := c.tree.FindBranchByName(m.Branch, m.Subject)
	base := rewards.Calculate(subject, branch, m.StudyType, m.ActualTimeSpent, c.player)

	// 2. Monster mood.
	mood := c.player.Mood()
	credited := rewards.ApplyMood(base, mood)

	// 3. Credit the player and fix the mission's rewards.
	c.player.Credit(credited.XP, credited.Gold)
	m.XPReward = credited.XP
	m.GoldReward = credited.Gold
	m.RewardsApplied = true
	c.player.AdjustMonster(-c.monster.CompletionRelief)

	// 4. Streak.
	c.player.UpdateStreak(now)

	comp := &Completion{
		Base:     base,
		Mood:     mood,
		Credited: credited,
		Streak:   c.player.CheckInStreak,
	}

	// 5. Branch progress and topic unlocks.
	if m.ActualTimeSpent > 0 && hasBranch {
		comp.BranchXP = rewards.ApplyBoost(credited.XP, c.player.Boost(m.Subject))
		c.tree.ApplyProgress(m.Branch, m.Subject, comp.BranchXP, m.ActualTimeSpent)
		for _, tp := range c.engine.CheckTopicUnlocks(branch, mastery.LevelFor(c.player, branch)) {
			comp.UnlockedTopics = append(comp.UnlockedTopics, tp.Name)
		}
	}

	// 6. Achievements.
	evs := []achievements.Event{
		achievements.MissionCompleted{Subject: m.Subject, Branch: m.Branch, Seconds: m.ActualTimeSpent},
		achievements.GoldEarned{Balance: c.player.Gold},
		achievements.StreakReached{Days: c.player.CheckInStreak},
	}
	for _, name := range comp.UnlockedTopics {
		evs = append(evs, achievements.TopicUnlocked{Branch: m.Branch, Topic: name})
	}
	evs = append(evs, achievements.LoginTime{Hour: now.Hour()})
	for _, ev := range evs {
		comp.Achievements = append(comp.Achievements, c.tracker.Process(ev, c.player, now)...)
	}

	// 7. Dungeon stage.
	if m.Source == mission.SourceDungeon {
		comp.DungeonCleared = c.advanceDungeon(m)
	}

	// 8. Archive.
	c.player.ArchiveMission(m)
	c.board.Remove(m.ID)
	comp.Mission = copyMission(m)

	c.logger.Info("mission completed",
		zap.String("mission_id", m.ID),
		zap.String("branch", m.Branch),
		zap.String("mood", string(mood)),
		zap.Float64("xp", credited.XP),
		zap.Int("gold", credited.Gold),
		zap.Strings("topics_unlocked", comp.UnlockedTopics))

	c.recordMission(ctx, store.MissionEventData{
		Action:    "completed",
		MissionID: m.ID,
		Subject:   m.Subject,
		Branch:    m.Branch,
		Topic:     m.Topic,
		StudyType: string(m.StudyType),
		Source:    string(m.Source),
		Mood:      string(mood),
		XP:        credited.XP,
		Gold:      credited.Gold,
		BranchXP:  comp.BranchXP,
		TimeSpent: m.ActualTimeSpent,
	})
	for _, name := range comp.UnlockedTopics {
		c.recordUnlock(ctx, store.UnlockEventData{Kind: "topic", Subject: m.Subject, Branch: m.Branch, Topic: name})
	}
	c.recordAchievements(ctx, comp.Achievements)
	return comp, nil
}

// advanceDungeon clears the stage a dungeon mission was created for and
// grants the final reward on the call that clears the last one. The mission
// must target the current stage with its study type and have studied the
// full required duration; anything else leaves progress unchanged.
func (c *Coordinator) advanceDungeon(m *mission.Mission) *dungeon.Dungeon {
	d, ok := c.dungeons.Get(m.DungeonID)
	if !ok {
		c.logger.Debug("dungeon not found", zap.String("dungeon_id", m.DungeonID))
		return nil
	}
	progress := c.player.DungeonProgress(d.ID)
	stage, ok := progress.NextStage(d)
	if !ok {
		return nil
	}
	if m.DungeonStage != progress.Stage || m.StudyType != stage.StudyType || m.ActualTimeSpent < stage.RequiredDuration {
		c.logger.Info("dungeon stage not cleared",
			zap.String("dungeon", d.ID),
			zap.Int("stage", progress.Stage),
			zap.Int("mission_stage", m.DungeonStage),
			zap.Int("studied", m.ActualTimeSpent),
			zap.Int("required", stage.RequiredDuration))
		return nil
	}
	if !progress.Advance(d) {
		return nil
	}
	c.player.Credit(d.FinalReward.XP, d.FinalReward.Gold)
	if d.FinalReward.Title != "" {
		c.player.GrantTitle(d.FinalReward.Title)
	}
	c.logger.Info("dungeon cleared", zap.String("dungeon", d.ID))
	return d
}

// IsAlreadyCompleted reports whether err is a repeated completion.
func IsAlreadyCompleted(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted)
}
