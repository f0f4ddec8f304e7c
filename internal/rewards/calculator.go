// Package rewards computes mission XP and gold and the modifiers layered on
// top of the base values.
package rewards

import (
	"math"

	"github.com/abhisek/studyquest/internal/knowledge"
	"github.com/abhisek/studyquest/internal/mission"
)

// Reward rates.
const (
	XPPerMinute   = 2.5
	GoldPerMinute = 0.5

	CollegeMultiplier   = 1.2
	EffortfulMultiplier = 1.3
	PassiveMultiplier   = 0.9

	// IntelligenceBaseline is the intelligence above which STEM subjects
	// earn AffinityPerPoint extra XP per point.
	IntelligenceBaseline = 10
	AffinityPerPoint     = 0.02
)

// StatSource answers player stat lookups.
type StatSource interface {
	Stat(name string) (int, bool)
}

// Reward is an XP and gold pair.
type Reward struct {
	XP   float64
	Gold int
}

// Calculate returns the base reward for studying duration seconds. It does
// not apply mood or permanent boosts, so it doubles as a preview.
func Calculate(subject *knowledge.Subject, branch *knowledge.Branch, studyType mission.StudyType, duration int, stats StatSource) Reward {
	minutes := float64(duration) / 60
	xp := minutes * XPPerMinute
	gold := minutes * GoldPerMinute

	if branch != nil && branch.Level == knowledge.LevelCollege {
		xp *= CollegeMultiplier
		gold *= CollegeMultiplier
	}

	switch {
	case studyType.Effortful():
		xp *= EffortfulMultiplier
	case studyType.Passive():
		xp *= PassiveMultiplier
	}

	if subject != nil && subject.Category == knowledge.CategorySTEM && stats != nil {
		if intel, ok := stats.Stat("intelligence"); ok && intel > IntelligenceBaseline {
			xp *= 1 + float64(intel-IntelligenceBaseline)*AffinityPerPoint
		}
	}

	r := Reward{XP: xp, Gold: int(math.Floor(gold))}
	if r.XP < 1 {
		r.XP = 1
	}
	if r.Gold < 1 {
		r.Gold = 1
	}
	return r
}

// ApplyBoost scales branch-credited XP by a permanent per-subject boost
// such as 0.005 for +0.5%.
func ApplyBoost(xp, boost float64) float64 {
	return xp * (1 + boost)
}
