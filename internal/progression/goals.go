package progression

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/knowledge"
	"github.com/abhisek/studyquest/internal/mastery"
	"github.com/abhisek/studyquest/internal/store"
	"go.uber.org/zap"
)

// SetMasteryGoal sets a branch's mastery goal. A locked branch is unlocked
// first when its prerequisites allow it; a mastered branch is remastered.
func (c *Coordinator) SetMasteryGoal(ctx context.Context, branchID string, level mastery.Level) (*mastery.GoalChange, error) {
	if !level.Valid() {
		return nil, apperr.Invalid("level", fmt.Sprintf("unknown mastery level %q", level))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.tree.FindBranch(branchID)
	if !ok {
		return nil, apperr.NotFound("branch", branchID)
	}
	if !b.Unlocked {
		if !c.engine.CanUnlock(b, c.player) {
			return nil, apperr.Invalid("branch",
				b.Name+" is locked: "+strings.Join(c.engine.Blockers(b, c.player), "; "))
		}
		c.engine.UnlockBranch(b, false)
		c.recordUnlock(ctx, store.UnlockEventData{Kind: "branch", Subject: b.Subject, Branch: b.Name})
	}

	change, err := c.policy.SetGoal(c.player, branchID, level)
	if err != nil {
		return nil, err
	}
	c.recordMastery(ctx, store.MasteryEventData{
		Subject:       b.Subject,
		Branch:        b.Name,
		Level:         string(level),
		RemasterCount: change.RemasterCount,
		BoostGranted:  change.BoostGranted,
	})

	// An easier goal can bring existing progress over a threshold.
	for _, tp := range c.engine.CheckTopicUnlocks(b, level) {
		c.recordUnlock(ctx, store.UnlockEventData{Kind: "topic", Subject: b.Subject, Branch: b.Name, Topic: tp.Name})
	}
	return change, nil
}

// DeclareInitialSkills auto-unlocks branches the player already knows,
// along with their prerequisites. Unknown IDs reject the whole call before
// anything changes.
func (c *Coordinator) DeclareInitialSkills(ctx context.Context, branchIDs []string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	branches := make([]*knowledge.Branch, 0, len(branchIDs))
	for _, id := range branchIDs {
		b, ok := c.tree.FindBranch(id)
		if !ok {
			return nil, apperr.NotFound("branch", id)
		}
		branches = append(branches, b)
	}

	var names []string
	for _, b := range branches {
		for _, changed := range c.engine.UnlockBranch(b, true) {
			names = append(names, changed.Name)
			c.recordUnlock(ctx, store.UnlockEventData{Kind: "branch", Subject: changed.Subject, Branch: changed.Name, Auto: true})
		}
	}
	c.logger.Info("initial skills declared", zap.Strings("branches", names))
	return names, nil
}

// ResetBranch clears a branch's progress and re-locks its topics.
func (c *Coordinator) ResetBranch(branchID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tree.ResetBranch(branchID) {
		return apperr.NotFound("branch", branchID)
	}
	return nil
}

// ResetTopic re-locks an unlocked topic and removes its contribution from
// the branch totals.
func (c *Coordinator) ResetTopic(topicID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	tp, _, ok := c.tree.FindTopic(topicID)
	if !ok {
		return apperr.NotFound("topic", topicID)
	}
	if !tp.Unlocked {
		return apperr.Invalid("topic", tp.Name+" is not unlocked")
	}
	c.tree.ResetTopic(topicID)
	return nil
}

// TopicView is a display copy of a topic with scaled requirements.
type TopicView struct {
	ID        string
	Name      string
	Unlocked  bool
	Threshold mastery.Threshold
}

// BranchView is a display copy of a branch and its derived state.
type BranchView struct {
	ID                string
	Name              string
	Subject           string
	Category          knowledge.Category
	Level             knowledge.Level
	Unlocked          bool
	AutoUnlocked      bool
	Mastered          bool
	Progress          float64
	Goal              mastery.Level
	HasGoal           bool
	Multiplier        float64
	RemasterCount     int
	CurrentXP         float64
	MissionsCompleted int
	TotalTimeSpent    int
	CanUnlock         bool
	Blockers          []string
	Totals            mastery.Threshold
	Topics            []TopicView
}

// Branches returns display copies of every branch in catalog order.
func (c *Coordinator) Branches() []BranchView {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []BranchView
	for _, b := range c.tree.Branches() {
		goal, hasGoal := c.player.Goal(b.Name)
		level := mastery.LevelFor(c.player, b)
		v := BranchView{
			ID:                b.ID,
			Name:              b.Name,
			Subject:           b.Subject,
			Level:             b.Level,
			Unlocked:          b.Unlocked,
			AutoUnlocked:      b.AutoUnlocked,
			Mastered:          b.IsMastered(),
			Progress:          b.Progress(),
			Goal:              goal,
			HasGoal:           hasGoal,
			Multiplier:        mastery.EffectiveMultiplier(b.RemasterCount, level),
			RemasterCount:     b.RemasterCount,
			CurrentXP:         b.CurrentXP,
			MissionsCompleted: b.MissionsCompleted,
			TotalTimeSpent:    b.TotalTimeSpent,
			Totals:            mastery.ScaledTotals(b, level),
		}
		if s := c.tree.SubjectOf(b); s != nil {
			v.Category = s.Category
		}
		if !b.Unlocked {
			v.CanUnlock = c.engine.CanUnlock(b, c.player)
			v.Blockers = c.engine.Blockers(b, c.player)
		}
		for _, tp := range b.Topics {
			v.Topics = append(v.Topics, TopicView{
				ID:        tp.ID,
				Name:      tp.Name,
				Unlocked:  tp.Unlocked,
				Threshold: mastery.Thresholds(tp, b, level),
			})
		}
		out = append(out, v)
	}
	return out
}
