package mastery

import (
	"fmt"
	"math"
	"slices"

	"github.com/abhisek/studyquest/internal/knowledge"
)

// Level is the player-chosen mastery goal for a branch.
type Level string

const (
	LevelStandard   Level = "standard"
	LevelProficient Level = "proficient"
	LevelMastery    Level = "mastery"
)

// RemasterStep is the requirement increase added per completed remaster.
const RemasterStep = 0.25

// RemasterBoost is the permanent per-subject XP boost granted the first
// time any branch of that subject is remastered.
const RemasterBoost = 0.005

// AllLevels returns all levels from easiest to hardest.
func AllLevels() []Level {
	return []Level{LevelStandard, LevelProficient, LevelMastery}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return slices.Contains(AllLevels(), l)
}

// ParseLevel converts user input into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range AllLevels() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown mastery level %q (want standard, proficient or mastery)", s)
}

// Multiplier returns the requirement multiplier for the level.
// Unknown levels are treated as standard.
func (l Level) Multiplier() float64 {
	switch l {
	case LevelProficient:
		return 1.25
	case LevelMastery:
		return 1.50
	default:
		return 1.0
	}
}

// DisplayName returns a human-readable label for the level.
func (l Level) DisplayName() string {
	switch l {
	case LevelStandard:
		return "Standard"
	case LevelProficient:
		return "Proficient"
	case LevelMastery:
		return "Mastery"
	default:
		return string(l)
	}
}

// EffectiveMultiplier combines the remaster escalation with the goal level.
func EffectiveMultiplier(remasterCount int, level Level) float64 {
	return (1 + float64(remasterCount)*RemasterStep) * level.Multiplier()
}

// Threshold is a topic's unlock requirement after scaling.
type Threshold struct {
	XP       float64
	Missions int
	Time     float64 // seconds
}

// Thresholds scales a topic's base requirements by the branch's effective
// multiplier. The mission count is rounded up.
func Thresholds(t *knowledge.Topic, b *knowledge.Branch, level Level) Threshold {
	m := EffectiveMultiplier(b.RemasterCount, level)
	return Threshold{
		XP:       t.XPRequired * m,
		Missions: int(math.Ceil(float64(t.MissionsRequired) * m)),
		Time:     float64(t.TimeRequired) * m,
	}
}

// Met reports whether the branch's cumulative totals reach the threshold.
func (th Threshold) Met(b *knowledge.Branch) bool {
	return b.CurrentXP >= th.XP &&
		b.MissionsCompleted >= th.Missions &&
		float64(b.TotalTimeSpent) >= th.Time
}

// ScaledTotals returns the branch's aggregate requirements under the
// effective multiplier, for display and export.
func ScaledTotals(b *knowledge.Branch, level Level) Threshold {
	m := EffectiveMultiplier(b.RemasterCount, level)
	return Threshold{
		XP:       b.TotalXPRequired * m,
		Missions: int(math.Ceil(float64(b.TotalMissionsRequired) * m)),
		Time:     float64(b.TotalTimeRequired) * m,
	}
}
