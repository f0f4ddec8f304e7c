// Package player holds the mutable progression aggregate for a single player.
// Only the progression coordinator mutates it; other components see it
// through narrow interfaces.
package player

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/dungeon"
	"github.com/abhisek/studyquest/internal/mastery"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/rewards"
)

// DefaultStats are the starting attribute values.
func DefaultStats() map[string]int {
	return map[string]int{
		"intelligence": 10,
		"wisdom":       10,
		"focus":        10,
		"creativity":   10,
	}
}

// Player is the progression-relevant player state.
type Player struct {
	Gold          int
	TotalXP       float64
	CheckInStreak int

	LastMissionCompletion *time.Time

	Stats         map[string]int
	BranchMastery map[string]mastery.Level // keyed by branch name
	Dungeons      map[string]*dungeon.Progress
	Archive       []*mission.Mission

	// PermanentXPBoosts maps subject name to a fractional XP boost.
	PermanentXPBoosts map[string]float64

	// MonsterValue is the procrastination meter, 0 to rewards.MonsterMax.
	MonsterValue float64

	Titles            []string
	Achievements      map[string]time.Time // unlock time by achievement ID
	AchievementCounts map[string]int       // progress toward locked achievements
}

// New returns a fresh player with default stats.
func New() *Player {
	return &Player{
		Stats:             DefaultStats(),
		BranchMastery:     make(map[string]mastery.Level),
		Dungeons:          make(map[string]*dungeon.Progress),
		PermanentXPBoosts: make(map[string]float64),
		Achievements:      make(map[string]time.Time),
		AchievementCounts: make(map[string]int),
	}
}

// Stat returns the named stat.
func (p *Player) Stat(name string) (int, bool) {
	v, ok := p.Stats[name]
	return v, ok
}

// Credit adds XP and gold.
func (p *Player) Credit(xp float64, gold int) {
	p.TotalXP += xp
	p.Gold += gold
}

// CreditGold adds gold.
func (p *Player) CreditGold(amount int) {
	p.Gold += amount
}

// Debit removes gold, or fails without changing anything.
func (p *Player) Debit(amount int) error {
	if amount <= 0 {
		return apperr.Invalid("amount", fmt.Sprintf("must be positive, got %d", amount))
	}
	if p.Gold < amount {
		return &apperr.InsufficientResourceError{Resource: "gold", Required: amount, Available: p.Gold}
	}
	p.Gold -= amount
	return nil
}

// UpdateStreak applies a completion at now to the check-in streak. Days are
// calendar days in now's location.
func (p *Player) UpdateStreak(now time.Time) {
	if p.LastMissionCompletion == nil {
		p.CheckInStreak = 1
	} else {
		switch daysBetween(p.LastMissionCompletion.In(now.Location()), now) {
		case 0:
			if p.CheckInStreak == 0 {
				p.CheckInStreak = 1
			}
		case 1:
			p.CheckInStreak++
		default:
			p.CheckInStreak = 1
		}
	}
	p.LastMissionCompletion = &now
}

func daysBetween(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ArchiveMission stores a copy of m, replacing any archived mission with
// the same ID.
func (p *Player) ArchiveMission(m *mission.Mission) {
	cp := *m
	for i, a := range p.Archive {
		if a.ID == m.ID {
			p.Archive[i] = &cp
			return
		}
	}
	p.Archive = append(p.Archive, &cp)
}

// Archived returns the archived mission with the given ID.
func (p *Player) Archived(id string) (*mission.Mission, bool) {
	for _, a := range p.Archive {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Goal returns the mastery goal set for a branch.
func (p *Player) Goal(branch string) (mastery.Level, bool) {
	l, ok := p.BranchMastery[branch]
	return l, ok
}

// SetGoal records a mastery goal for a branch.
func (p *Player) SetGoal(branch string, level mastery.Level) {
	p.BranchMastery[branch] = level
}

// HasBoost reports whether the subject already holds a permanent boost.
func (p *Player) HasBoost(subject string) bool {
	_, ok := p.PermanentXPBoosts[subject]
	return ok
}

// GrantBoost adds a permanent XP boost for the subject.
func (p *Player) GrantBoost(subject string, amount float64) {
	p.PermanentXPBoosts[subject] += amount
}

// Boost returns the subject's permanent XP boost, zero if none.
func (p *Player) Boost(subject string) float64 {
	return p.PermanentXPBoosts[subject]
}

// Mood returns the procrastination monster's current mood.
func (p *Player) Mood() rewards.Mood {
	return rewards.MoodFor(p.MonsterValue)
}

// AdjustMonster moves the procrastination meter by delta, clamped to
// [0, rewards.MonsterMax].
func (p *Player) AdjustMonster(delta float64) {
	p.MonsterValue = min(max(p.MonsterValue+delta, 0), rewards.MonsterMax)
}

// DungeonProgress returns the progress record for a dungeon, creating it.
func (p *Player) DungeonProgress(id string) *dungeon.Progress {
	dp, ok := p.Dungeons[id]
	if !ok {
		dp = &dungeon.Progress{DungeonID: id}
		p.Dungeons[id] = dp
	}
	return dp
}

// HasTitle reports whether the title is held.
func (p *Player) HasTitle(title string) bool {
	return slices.Contains(p.Titles, title)
}

// GrantTitle adds a title unless it is already held.
func (p *Player) GrantTitle(title string) bool {
	if p.HasTitle(title) {
		return false
	}
	p.Titles = append(p.Titles, title)
	return true
}

// AchievementUnlocked reports whether the achievement was unlocked.
func (p *Player) AchievementUnlocked(id string) bool {
	_, ok := p.Achievements[id]
	return ok
}

// UnlockAchievement records an unlock time.
func (p *Player) UnlockAchievement(id string, at time.Time) {
	p.Achievements[id] = at
}

// AchievementProgress returns progress toward an achievement.
func (p *Player) AchievementProgress(id string) int {
	return p.AchievementCounts[id]
}

// SetAchievementProgress stores progress toward an achievement.
func (p *Player) SetAchievementProgress(id string, value int) {
	p.AchievementCounts[id] = value
}

// Clone returns a deep copy for read-only views outside the coordinator.
func (p *Player) Clone() *Player {
	cp := *p
	if p.LastMissionCompletion != nil {
		t := *p.LastMissionCompletion
		cp.LastMissionCompletion = &t
	}
	cp.Stats = maps.Clone(p.Stats)
	cp.BranchMastery = maps.Clone(p.BranchMastery)
	cp.PermanentXPBoosts = maps.Clone(p.PermanentXPBoosts)
	cp.Achievements = maps.Clone(p.Achievements)
	cp.AchievementCounts = maps.Clone(p.AchievementCounts)
	cp.Titles = slices.Clone(p.Titles)
	cp.Dungeons = make(map[string]*dungeon.Progress, len(p.Dungeons))
	for id, dp := range p.Dungeons {
		d := *dp
		cp.Dungeons[id] = &d
	}
	cp.Archive = make([]*mission.Mission, len(p.Archive))
	for i, m := range p.Archive {
		mc := *m
		cp.Archive[i] = &mc
	}
	return &cp
}
