package mastery

import (
	"fmt"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/knowledge"
	"go.uber.org/zap"
)

// GoalReader exposes the player's sparse branch-name to goal map.
type GoalReader interface {
	Goal(branch string) (Level, bool)
}

// GoalBook is the slice of player state that goal changes write to.
type GoalBook interface {
	GoalReader
	SetGoal(branch string, level Level)
	HasBoost(subject string) bool
	GrantBoost(subject string, amount float64)
}

// GoalChange records the outcome of setting a mastery goal.
type GoalChange struct {
	BranchID      string
	Branch        string
	Subject       string
	From          Level // empty when no goal was set
	To            Level
	Remastered    bool
	RemasterCount int
	BoostGranted  float64
}

// Policy applies mastery goals to branches of a knowledge tree.
type Policy struct {
	tree   *knowledge.Tree
	logger *zap.Logger
}

// NewPolicy creates a policy over tree.
func NewPolicy(tree *knowledge.Tree, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{tree: tree, logger: logger}
}

// LevelFor returns the branch's goal, or standard when none is set.
func LevelFor(goals GoalReader, b *knowledge.Branch) Level {
	if goals == nil {
		return LevelStandard
	}
	if l, ok := goals.Goal(b.Name); ok {
		return l
	}
	return LevelStandard
}

// Multiplier returns the branch's effective multiplier under its current goal.
func (p *Policy) Multiplier(goals GoalReader, b *knowledge.Branch) float64 {
	return EffectiveMultiplier(b.RemasterCount, LevelFor(goals, b))
}

// SetGoal records a new goal for the branch. On an already mastered branch
// this is a remaster: the remaster count rises and the subject's one-time
// boost is granted before the branch progress is reset, since the reset
// leaves the remaster count alone.
func (p *Policy) SetGoal(book GoalBook, branchID string, level Level) (*GoalChange, error) {
	if !level.Valid() {
		return nil, apperr.Invalid("level", fmt.Sprintf("unknown mastery level %q", level))
	}
	b, ok := p.tree.FindBranch(branchID)
	if !ok {
		return nil, apperr.NotFound("branch", branchID)
	}

	change := &GoalChange{
		BranchID: b.ID,
		Branch:   b.Name,
		Subject:  b.Subject,
		To:       level,
	}
	if prev, ok := book.Goal(b.Name); ok {
		change.From = prev
	}

	if b.IsMastered() {
		b.RemasterCount++
		change.Remastered = true
		if !book.HasBoost(b.Subject) {
			book.GrantBoost(b.Subject, RemasterBoost)
			change.BoostGranted = RemasterBoost
		}
		p.tree.ResetBranch(b.ID)
		p.logger.Info("branch remastered",
			zap.String("branch", b.Name),
			zap.Int("remaster_count", b.RemasterCount),
			zap.Float64("boost_granted", change.BoostGranted))
	}
	change.RemasterCount = b.RemasterCount

	book.SetGoal(b.Name, level)
	return change, nil
}
