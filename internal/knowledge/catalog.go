package knowledge

import "strings"

// topicSpec is the compact catalog form of a topic.
type topicSpec struct {
	name     string
	xp       float64
	missions int
	hours    float64
}

// branchSpec is the compact catalog form of a branch.
type branchSpec struct {
	id         string
	name       string
	level      Level
	prereqs    []string
	completion float64
	stats      map[string]int
	topics     []topicSpec
}

// DefaultCatalog returns a fresh copy of the built-in subject catalog.
// Each call allocates new branches so trees never share mutable state.
func DefaultCatalog() []*Subject {
	return []*Subject{
		subject("mathematics", "Mathematics", CategorySTEM,
			branchSpec{id: "algebra-1", name: "Algebra I", level: LevelHighSchool, topics: []topicSpec{
				{"Linear Equations", 50, 1, 0.5},
				{"Inequalities", 150, 3, 1.5},
				{"Systems of Equations", 350, 6, 3},
				{"Quadratics", 600, 10, 5},
			}},
			branchSpec{id: "geometry", name: "Geometry", level: LevelHighSchool,
				prereqs: []string{"Algebra I"}, completion: 0.5, topics: []topicSpec{
					{"Angles and Lines", 60, 1, 0.5},
					{"Triangles", 200, 3, 2},
					{"Circles", 450, 6, 4},
					{"Proofs", 800, 10, 6},
				}},
			branchSpec{id: "precalculus", name: "Precalculus", level: LevelHighSchool,
				prereqs: []string{"Algebra I", "Geometry"}, completion: 0.75, topics: []topicSpec{
					{"Functions", 100, 2, 1},
					{"Trigonometry", 400, 5, 4},
					{"Sequences and Series", 900, 10, 8},
				}},
			branchSpec{id: "calculus-1", name: "Calculus I", level: LevelCollege,
				prereqs: []string{"Precalculus"}, completion: 0.75,
				stats: map[string]int{"intelligence": 12}, topics: []topicSpec{
					{"Limits", 150, 2, 2},
					{"Derivatives", 600, 6, 6},
					{"Applications of Derivatives", 1200, 10, 10},
					{"Integrals", 2000, 15, 15},
				}},
			branchSpec{id: "linear-algebra", name: "Linear Algebra", level: LevelCollege,
				prereqs: []string{"Calculus I"}, completion: 0.5, topics: []topicSpec{
					{"Vectors", 200, 2, 2},
					{"Matrices", 700, 6, 6},
					{"Eigenvalues", 1500, 12, 12},
				}},
		),
		subject("physics", "Physics", CategorySTEM,
			branchSpec{id: "mechanics", name: "Mechanics", level: LevelHighSchool,
				prereqs: []string{"Algebra I"}, completion: 0.5, topics: []topicSpec{
					{"Kinematics", 100, 2, 1},
					{"Newton's Laws", 400, 5, 4},
					{"Energy and Momentum", 900, 10, 8},
				}},
			branchSpec{id: "electromagnetism", name: "Electromagnetism", level: LevelCollege,
				prereqs: []string{"Mechanics", "Calculus I"}, completion: 0.75, topics: []topicSpec{
					{"Electrostatics", 300, 3, 3},
					{"Circuits", 900, 8, 8},
					{"Maxwell's Equations", 2000, 15, 15},
				}},
		),
		subject("history", "History", CategoryHumanities,
			branchSpec{id: "world-history", name: "World History", level: LevelHighSchool, topics: []topicSpec{
				{"Ancient Civilizations", 50, 1, 0.5},
				{"Middle Ages", 250, 4, 2.5},
				{"Modern Era", 600, 8, 5},
			}},
			branchSpec{id: "historiography", name: "Historiography", level: LevelCollege,
				prereqs: []string{"World History"}, completion: 0.75,
				stats: map[string]int{"wisdom": 11}, topics: []topicSpec{
					{"Sources and Evidence", 200, 2, 2},
					{"Schools of Thought", 800, 8, 8},
				}},
		),
		subject("literature", "Literature", CategoryLanguages,
			branchSpec{id: "composition", name: "Composition", level: LevelHighSchool, topics: []topicSpec{
				{"Paragraphs", 50, 1, 0.5},
				{"Argumentative Essays", 300, 4, 3},
				{"Research Papers", 700, 8, 6},
			}},
		),
	}
}

func subject(id, name string, category Category, specs ...branchSpec) *Subject {
	s := &Subject{ID: id, Name: name, Category: category}
	for _, bs := range specs {
		b := &Branch{
			ID:                     bs.id,
			Name:                   bs.name,
			Subject:                name,
			Level:                  bs.level,
			Prerequisites:          bs.prereqs,
			PrerequisiteCompletion: bs.completion,
			RequiredStats:          bs.stats,
		}
		for _, ts := range bs.topics {
			tp := &Topic{
				ID:               bs.id + "/" + slug(ts.name),
				Name:             ts.name,
				XPRequired:       ts.xp,
				MissionsRequired: ts.missions,
				TimeRequired:     int(ts.hours * 3600),
			}
			b.Topics = append(b.Topics, tp)
		}
		// Topic requirements are cumulative, so the branch totals are the
		// last topic's thresholds.
		if n := len(b.Topics); n > 0 {
			last := b.Topics[n-1]
			b.TotalXPRequired = last.XPRequired
			b.TotalMissionsRequired = last.MissionsRequired
			b.TotalTimeRequired = last.TimeRequired
		}
		s.Branches = append(s.Branches, b)
	}
	return s
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
