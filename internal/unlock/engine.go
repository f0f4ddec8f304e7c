// Package unlock evaluates branch prerequisites and applies branch and topic
// unlock transitions on a knowledge tree.
package unlock

import (
	"github.com/abhisek/studyquest/internal/knowledge"
	"github.com/abhisek/studyquest/internal/mastery"
	"go.uber.org/zap"
)

// StatSource answers stat lookups for required-stat gating.
type StatSource interface {
	Stat(name string) (int, bool)
}

// Stats is a plain map StatSource.
type Stats map[string]int

// Stat implements StatSource.
func (s Stats) Stat(name string) (int, bool) {
	v, ok := s[name]
	return v, ok
}

// Engine evaluates and applies unlocks on a single tree.
type Engine struct {
	tree   *knowledge.Tree
	logger *zap.Logger
}

// New creates an engine for tree.
func New(tree *knowledge.Tree, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tree: tree, logger: logger}
}

// CanUnlock reports whether every prerequisite of b is unlocked with at
// least b.PrerequisiteCompletion of its topics covered, and every required
// stat is met. A branch without prerequisites can always unlock.
func (e *Engine) CanUnlock(b *knowledge.Branch, stats StatSource) bool {
	if len(b.Prerequisites) == 0 {
		return true
	}
	for _, name := range b.Prerequisites {
		p, ok := e.tree.BranchNamed(name)
		if !ok {
			return false
		}
		if !p.Unlocked || p.Progress() < b.PrerequisiteCompletion {
			return false
		}
	}
	for stat, need := range b.RequiredStats {
		var v int
		if stats != nil {
			v, _ = stats.Stat(stat)
		}
		if v < need {
			return false
		}
	}
	return true
}

// Blockers lists the reasons b cannot unlock yet, for display.
func (e *Engine) Blockers(b *knowledge.Branch, stats StatSource) []string {
	if len(b.Prerequisites) == 0 {
		return nil
	}
	var out []string
	for _, name := range b.Prerequisites {
		p, ok := e.tree.BranchNamed(name)
		switch {
		case !ok:
			out = append(out, "missing prerequisite "+name)
		case !p.Unlocked:
			out = append(out, name+" is locked")
		case p.Progress() < b.PrerequisiteCompletion:
			out = append(out, name+" needs more progress")
		}
	}
	for stat, need := range b.RequiredStats {
		var v int
		if stats != nil {
			v, _ = stats.Stat(stat)
		}
		if v < need {
			out = append(out, "needs "+stat)
		}
	}
	return out
}

// UnlockBranch marks b unlocked and returns every branch whose state changed.
// An auto unlock models declared prior knowledge: all of b's topics unlock
// immediately and every prerequisite, transitively, is auto unlocked too,
// ignoring normal gating.
func (e *Engine) UnlockBranch(b *knowledge.Branch, auto bool) []*knowledge.Branch {
	if !auto {
		if b.Unlocked {
			return nil
		}
		b.Unlocked = true
		e.logger.Info("branch unlocked", zap.String("branch", b.Name))
		return []*knowledge.Branch{b}
	}
	var changed []*knowledge.Branch
	e.autoUnlock(b, map[string]bool{}, &changed)
	return changed
}

func (e *Engine) autoUnlock(b *knowledge.Branch, visited map[string]bool, changed *[]*knowledge.Branch) {
	if visited[b.ID] {
		return
	}
	visited[b.ID] = true

	dirty := !b.Unlocked || !b.AutoUnlocked
	b.Unlocked = true
	b.AutoUnlocked = true
	for _, tp := range b.Topics {
		if !tp.Unlocked {
			tp.Unlocked = true
			dirty = true
		}
	}
	if dirty {
		*changed = append(*changed, b)
		e.logger.Info("branch auto-unlocked", zap.String("branch", b.Name))
	}

	for _, name := range b.Prerequisites {
		p, ok := e.tree.BranchNamed(name)
		if !ok {
			continue
		}
		e.autoUnlock(p, visited, changed)
	}
}

// CheckTopicUnlocks unlocks every still-locked topic of b whose scaled
// thresholds are met by the branch's cumulative totals, and returns the
// newly unlocked topics in catalog order. Topics of a locked branch never
// unlock.
func (e *Engine) CheckTopicUnlocks(b *knowledge.Branch, level mastery.Level) []*knowledge.Topic {
	if !b.Unlocked {
		return nil
	}
	var unlocked []*knowledge.Topic
	for _, tp := range b.Topics {
		if tp.Unlocked {
			continue
		}
		if mastery.Thresholds(tp, b, level).Met(b) {
			tp.Unlocked = true
			unlocked = append(unlocked, tp)
		}
	}
	for _, tp := range unlocked {
		e.logger.Info("topic unlocked", zap.String("branch", b.Name), zap.String("topic", tp.Name))
	}
	return unlocked
}

// Available returns locked branches that can unlock now, in catalog order.
func (e *Engine) Available(stats StatSource) []*knowledge.Branch {
	var out []*knowledge.Branch
	for _, b := range e.tree.Branches() {
		if !b.Unlocked && e.CanUnlock(b, stats) {
			out = append(out, b)
		}
	}
	return out
}
