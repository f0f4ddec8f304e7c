package progression

import (
	"context"
	"fmt"

	"github.com/abhisek/studyquest/internal/achievements"
	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/mastery"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/rewards"
	"github.com/abhisek/studyquest/internal/shop"
	"github.com/abhisek/studyquest/internal/store"
	"go.uber.org/zap"
)

// SpendGold debits gold for an external sink. Nothing changes on failure.
func (c *Coordinator) SpendGold(amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.Debit(amount)
}

// Purchase buys a shop item and applies its effect.
func (c *Coordinator) Purchase(itemID string) (shop.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.shop.Get(itemID)
	if !ok {
		return shop.Item{}, apperr.NotFound("item", itemID)
	}
	if item.Effect == shop.EffectTitle && c.player.HasTitle(item.Title) {
		return shop.Item{}, apperr.Invalid("item", "title already owned")
	}
	if err := c.player.Debit(item.Price); err != nil {
		return shop.Item{}, err
	}
	switch item.Effect {
	case shop.EffectTitle:
		c.player.GrantTitle(item.Title)
	case shop.EffectStat:
		c.player.Stats[item.Stat]++
	case shop.EffectCalmMonster:
		c.player.AdjustMonster(-item.Amount)
	}
	c.logger.Info("item purchased", zap.String("item", item.ID), zap.Int("gold_left", c.player.Gold))
	return item, nil
}

// RecordLogin reports a session start to the achievement tracker.
func (c *Coordinator) RecordLogin(ctx context.Context) []achievements.Achievement {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	unlocked := c.tracker.Process(achievements.LoginTime{Hour: now.Hour()}, c.player, now)
	c.recordAchievements(ctx, unlocked)
	return unlocked
}

// ReviewMission attaches a rating and notes to an archived mission.
func (c *Coordinator) ReviewMission(ctx context.Context, id string, rating int, notes string) (*mission.Mission, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Invalid("rating", fmt.Sprintf("must be 1-5, got %d", rating))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	archived, ok := c.player.Archived(id)
	if !ok {
		return nil, apperr.NotFound("mission", id)
	}
	m := copyMission(archived)
	now := c.now()
	m.Rating = rating
	m.Notes = notes
	m.ReviewedAt = &now
	c.player.ArchiveMission(m)

	c.recordMission(ctx, store.MissionEventData{
		Action:    "reviewed",
		MissionID: m.ID,
		Subject:   m.Subject,
		Branch:    m.Branch,
		Topic:     m.Topic,
		StudyType: string(m.StudyType),
		Source:    string(m.Source),
	})
	return copyMission(m), nil
}

// RewardPreview estimates what completing a mission would pay right now.
type RewardPreview struct {
	Base     rewards.Reward
	Mood     rewards.Mood
	Credited rewards.Reward
	BranchXP float64
}

// PreviewReward estimates a mission's rewards for its full duration without
// changing any state.
func (c *Coordinator) PreviewReward(id string) (*RewardPreview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.board.Get(id)
	if !ok {
		return nil, apperr.NotFound("mission", id)
	}
	subject, _ := c.tree.Subject(m.Subject)
	branch, _ := c.tree.FindBranchByName(m.Branch, m.Subject)
	base := rewards.Calculate(subject, branch, m.StudyType, m.TotalDuration, c.player)
	mood := c.player.Mood()
	credited := rewards.ApplyMood(base, mood)
	return &RewardPreview{
		Base:     base,
		Mood:     mood,
		Credited: credited,
		BranchXP: rewards.ApplyBoost(credited.XP, c.player.Boost(m.Subject)),
	}, nil
}

// GoalFor returns the goal in effect for a branch name.
func (c *Coordinator) GoalFor(branch string) mastery.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.player.Goal(branch); ok {
		return l
	}
	return mastery.LevelStandard
}
