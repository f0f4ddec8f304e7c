package knowledge

// Category groups subjects; STEM subjects earn an intelligence affinity bonus.
type Category string

const (
	CategorySTEM       Category = "stem"
	CategoryHumanities Category = "humanities"
	CategoryLanguages  Category = "languages"
	CategoryArts       Category = "arts"
)

// DisplayName returns a human-readable name for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategorySTEM:
		return "STEM"
	case CategoryHumanities:
		return "Humanities"
	case CategoryLanguages:
		return "Languages"
	case CategoryArts:
		return "Arts"
	default:
		return string(c)
	}
}

// Level is the academic level of a branch.
type Level string

const (
	LevelHighSchool Level = "high-school"
	LevelCollege    Level = "college"
)

// Topic is the smallest unlockable unit. Its requirements are thresholds on
// the parent branch's cumulative totals, not on the topic itself.
type Topic struct {
	ID               string
	Name             string
	XPRequired       float64
	MissionsRequired int
	TimeRequired     int // seconds
	Unlocked         bool
}

// Branch is a unit of coursework holding ordered topics plus the player's
// dynamic unlock and progress state.
type Branch struct {
	ID      string
	Name    string
	Subject string
	Level   Level

	// Prerequisites names other branches that must be unlocked and at least
	// PrerequisiteCompletion covered before this branch can unlock.
	Prerequisites          []string
	PrerequisiteCompletion float64

	TotalXPRequired       float64
	TotalMissionsRequired int
	TotalTimeRequired     int // seconds

	// RequiredStats maps a player stat name to its minimum value.
	RequiredStats map[string]int

	Topics []*Topic

	Unlocked          bool
	AutoUnlocked      bool
	CurrentXP         float64
	TotalTimeSpent    int // seconds
	MissionsCompleted int
	RemasterCount     int
}

// Progress returns the fraction of topics unlocked (0.0-1.0).
func (b *Branch) Progress() float64 {
	if len(b.Topics) == 0 {
		return 0
	}
	n := 0
	for _, t := range b.Topics {
		if t.Unlocked {
			n++
		}
	}
	return float64(n) / float64(len(b.Topics))
}

// IsMastered reports whether the branch is unlocked and every topic is unlocked.
func (b *Branch) IsMastered() bool {
	if !b.Unlocked {
		return false
	}
	for _, t := range b.Topics {
		if !t.Unlocked {
			return false
		}
	}
	return true
}

// Topic returns the topic with the given name.
func (b *Branch) Topic(name string) (*Topic, bool) {
	for _, t := range b.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Subject is an immutable container of branches.
type Subject struct {
	ID       string
	Name     string
	Category Category
	Branches []*Branch
}
