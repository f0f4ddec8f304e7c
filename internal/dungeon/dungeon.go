// Package dungeon holds the static dungeon catalog and per-player stage
// progress.
package dungeon

import (
	"slices"

	"github.com/abhisek/studyquest/internal/mission"
)

// Stage is one step of a dungeon: a mission of the given study type and
// length.
type Stage struct {
	StudyType        mission.StudyType
	RequiredDuration int // seconds
}

// Reward is granted once when the final stage is cleared.
type Reward struct {
	Gold  int
	XP    float64
	Title string // optional
}

// Dungeon is a fixed sequence of stages ending in a bonus reward.
type Dungeon struct {
	ID          string
	Name        string
	Stages      []Stage
	FinalReward Reward
}

// Catalog is a read-only dungeon lookup.
type Catalog struct {
	dungeons []*Dungeon
	byID     map[string]*Dungeon
}

// NewCatalog indexes dungeons by ID.
func NewCatalog(dungeons []*Dungeon) *Catalog {
	c := &Catalog{dungeons: dungeons, byID: make(map[string]*Dungeon, len(dungeons))}
	for _, d := range dungeons {
		c.byID[d.ID] = d
	}
	return c
}

// DefaultCatalog returns the built-in dungeons.
func DefaultCatalog() *Catalog {
	return NewCatalog([]*Dungeon{
		{
			ID:   "library-of-echoes",
			Name: "Library of Echoes",
			Stages: []Stage{
				{StudyType: mission.StudyReading, RequiredDuration: 1200},
				{StudyType: mission.StudyReviewingNotes, RequiredDuration: 900},
				{StudyType: mission.StudyEssayWriting, RequiredDuration: 1800},
			},
			FinalReward: Reward{Gold: 50, XP: 100, Title: "Archivist"},
		},
		{
			ID:   "proof-forge",
			Name: "The Proof Forge",
			Stages: []Stage{
				{StudyType: mission.StudyProblemSets, RequiredDuration: 1500},
				{StudyType: mission.StudyDerivations, RequiredDuration: 1500},
				{StudyType: mission.StudyDerivations, RequiredDuration: 3000},
			},
			FinalReward: Reward{Gold: 80, XP: 150, Title: "Forgemaster"},
		},
		{
			ID:   "lab-of-trials",
			Name: "Lab of Trials",
			Stages: []Stage{
				{StudyType: mission.StudyWatchingVideo, RequiredDuration: 900},
				{StudyType: mission.StudyDesigningExperiments, RequiredDuration: 2700},
			},
			FinalReward: Reward{Gold: 40, XP: 90},
		},
	})
}

// Get returns the dungeon with the given ID.
func (c *Catalog) Get(id string) (*Dungeon, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns every dungeon in catalog order.
func (c *Catalog) All() []*Dungeon {
	return slices.Clone(c.dungeons)
}

// Progress counts cleared stages of one dungeon.
type Progress struct {
	DungeonID string
	Stage     int // stages cleared
	Completed bool
}

// NextStage returns the stage to attempt next.
func (p *Progress) NextStage(d *Dungeon) (Stage, bool) {
	if p.Completed || p.Stage >= len(d.Stages) {
		return Stage{}, false
	}
	return d.Stages[p.Stage], true
}

// Advance records a cleared stage. It reports true exactly once, on the call
// that clears the final stage; later calls change nothing.
func (p *Progress) Advance(d *Dungeon) bool {
	if p.Completed {
		return false
	}
	p.Stage++
	if p.Stage >= len(d.Stages) {
		p.Stage = len(d.Stages)
		p.Completed = true
		return true
	}
	return false
}
