package player

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/abhisek/studyquest/internal/dungeon"
	"github.com/abhisek/studyquest/internal/mastery"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/store"
)

// SnapshotData exports the player for persistence.
func (p *Player) SnapshotData() *store.PlayerSnapshotData {
	data := &store.PlayerSnapshotData{
		Gold:                p.Gold,
		TotalXP:             p.TotalXP,
		CheckInStreak:       p.CheckInStreak,
		Stats:               maps.Clone(p.Stats),
		BranchMastery:       make(map[string]string, len(p.BranchMastery)),
		Dungeons:            make(map[string]*store.DungeonProgressData, len(p.Dungeons)),
		PermanentXPBoosts:   maps.Clone(p.PermanentXPBoosts),
		MonsterValue:        p.MonsterValue,
		Titles:              slices.Clone(p.Titles),
		Achievements:        make(map[string]string, len(p.Achievements)),
		AchievementProgress: maps.Clone(p.AchievementCounts),
	}
	if p.LastMissionCompletion != nil {
		s := p.LastMissionCompletion.Format(time.RFC3339Nano)
		data.LastMissionCompletion = &s
	}
	for branch, level := range p.BranchMastery {
		data.BranchMastery[branch] = string(level)
	}
	for id, dp := range p.Dungeons {
		data.Dungeons[id] = &store.DungeonProgressData{
			DungeonID: dp.DungeonID,
			Stage:     dp.Stage,
			Completed: dp.Completed,
		}
	}
	for _, m := range p.Archive {
		data.Archive = append(data.Archive, mission.ToData(m))
	}
	for id, at := range p.Achievements {
		data.Achievements[id] = at.Format(time.RFC3339Nano)
	}
	return data
}

// FromSnapshot rebuilds a player from persisted data.
func FromSnapshot(data *store.PlayerSnapshotData) (*Player, error) {
	p := New()
	if data == nil {
		return p, nil
	}
	p.Gold = data.Gold
	p.TotalXP = data.TotalXP
	p.CheckInStreak = data.CheckInStreak
	p.MonsterValue = data.MonsterValue
	p.Titles = append(p.Titles, data.Titles...)

	if data.LastMissionCompletion != nil {
		t, err := time.Parse(time.RFC3339Nano, *data.LastMissionCompletion)
		if err != nil {
			return nil, fmt.Errorf("last mission completion: %w", err)
		}
		p.LastMissionCompletion = &t
	}
	for k, v := range data.Stats {
		p.Stats[k] = v
	}
	for branch, level := range data.BranchMastery {
		l, err := mastery.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("branch %q: %w", branch, err)
		}
		p.BranchMastery[branch] = l
	}
	for id, dp := range data.Dungeons {
		p.Dungeons[id] = &dungeon.Progress{DungeonID: dp.DungeonID, Stage: dp.Stage, Completed: dp.Completed}
	}
	for _, md := range data.Archive {
		m, err := mission.FromData(md)
		if err != nil {
			return nil, err
		}
		p.Archive = append(p.Archive, m)
	}
	for k, v := range data.PermanentXPBoosts {
		p.PermanentXPBoosts[k] = v
	}
	for id, at := range data.Achievements {
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", id, err)
		}
		p.Achievements[id] = t
	}
	for k, v := range data.AchievementProgress {
		p.AchievementCounts[k] = v
	}
	return p, nil
}
