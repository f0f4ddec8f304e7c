package achievements

import (
	"time"

	"go.uber.org/zap"
)

// Holder is the player state the tracker reads and writes.
type Holder interface {
	AchievementUnlocked(id string) bool
	UnlockAchievement(id string, at time.Time)
	AchievementProgress(id string) int
	SetAchievementProgress(id string, value int)
	CreditGold(amount int)
	GrantTitle(title string) bool
}

// Tracker evaluates events against the achievement table.
type Tracker struct {
	registry []Achievement
	byID     map[string]*Achievement
	logger   *zap.Logger
}

// NewTracker creates a tracker over registry.
func NewTracker(registry []Achievement, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{registry: registry, byID: make(map[string]*Achievement, len(registry)), logger: logger}
	for i := range t.registry {
		t.byID[t.registry[i].ID] = &t.registry[i]
	}
	return t
}

// Registry returns a copy of the achievement table.
func (t *Tracker) Registry() []Achievement {
	out := make([]Achievement, len(t.registry))
	copy(out, t.registry)
	return out
}

// Get returns the achievement with the given ID.
func (t *Tracker) Get(id string) (Achievement, bool) {
	a, ok := t.byID[id]
	if !ok {
		return Achievement{}, false
	}
	return *a, true
}

// Process feeds ev to every locked achievement, grants the rewards of those
// that reach their target, and returns them in table order.
func (t *Tracker) Process(ev Event, h Holder, now time.Time) []Achievement {
	var unlocked []Achievement
	for _, a := range t.registry {
		if h.AchievementUnlocked(a.ID) {
			continue
		}
		v, ok := a.Measure(ev)
		if !ok {
			continue
		}

		cur := h.AchievementProgress(a.ID)
		next := cur
		switch a.Mode {
		case HighWater:
			next = max(cur, v)
		default:
			next = cur + v
		}
		if next != cur {
			h.SetAchievementProgress(a.ID, next)
		}
		if next < a.Target {
			continue
		}

		h.UnlockAchievement(a.ID, now)
		if a.Reward.Gold > 0 {
			h.CreditGold(a.Reward.Gold)
		}
		if a.Reward.Title != "" {
			h.GrantTitle(a.Reward.Title)
		}
		t.logger.Info("achievement unlocked",
			zap.String("achievement", a.ID),
			zap.String("tier", string(a.Tier)))
		unlocked = append(unlocked, a)
	}
	return unlocked
}
