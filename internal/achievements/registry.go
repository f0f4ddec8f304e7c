package achievements

// Mode says how a measured value moves progress.
type Mode int

const (
	// Counter adds the measured value to progress.
	Counter Mode = iota
	// HighWater raises progress to the measured value if it is higher.
	HighWater
)

// Reward is granted once, when the achievement unlocks.
type Reward struct {
	Gold  int
	Title string
}

// Achievement is one entry of the predicate table.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Tier        Tier
	Target      int
	Mode        Mode
	Reward      Reward

	// Measure returns the progress value an event contributes, and false
	// when the event is irrelevant to this achievement.
	Measure func(Event) (int, bool)
}

func countMissions(ev Event) (int, bool) {
	_, ok := ev.(MissionCompleted)
	return 1, ok
}

func goldBalance(ev Event) (int, bool) {
	g, ok := ev.(GoldEarned)
	return g.Balance, ok
}

func streakDays(ev Event) (int, bool) {
	s, ok := ev.(StreakReached)
	return s.Days, ok
}

func countTopics(ev Event) (int, bool) {
	_, ok := ev.(TopicUnlocked)
	return 1, ok
}

func hourBetween(from, to int) func(Event) (int, bool) {
	return func(ev Event) (int, bool) {
		l, ok := ev.(LoginTime)
		if !ok || l.Hour < from || l.Hour >= to {
			return 0, false
		}
		return 1, true
	}
}

func longMission(minSeconds int) func(Event) (int, bool) {
	return func(ev Event) (int, bool) {
		m, ok := ev.(MissionCompleted)
		if !ok || m.Seconds < minSeconds {
			return 0, false
		}
		return 1, true
	}
}

// DefaultRegistry returns the built-in achievement table.
func DefaultRegistry() []Achievement {
	return []Achievement{
		{ID: "first_mission", Name: "First Steps", Description: "Complete your first mission",
			Tier: TierCommon, Target: 1, Measure: countMissions},
		{ID: "ten_missions", Name: "Study Habit", Description: "Complete 10 missions",
			Tier: TierRare, Target: 10, Measure: countMissions, Reward: Reward{Gold: 20}},
		{ID: "fifty_missions", Name: "Scholar", Description: "Complete 50 missions",
			Tier: TierEpic, Target: 50, Measure: countMissions, Reward: Reward{Gold: 100, Title: "Scholar"}},
		{ID: "marathon", Name: "Marathon", Description: "Finish a mission of two hours or more",
			Tier: TierRare, Target: 1, Measure: longMission(7200)},

		{ID: "gold_100", Name: "Coin Purse", Description: "Hold 100 gold",
			Tier: TierCommon, Target: 100, Mode: HighWater, Measure: goldBalance},
		{ID: "gold_1000", Name: "Treasure Hoard", Description: "Hold 1000 gold",
			Tier: TierEpic, Target: 1000, Mode: HighWater, Measure: goldBalance, Reward: Reward{Title: "Hoarder"}},

		{ID: "streak_3", Name: "Warming Up", Description: "Reach a 3 day streak",
			Tier: TierCommon, Target: 3, Mode: HighWater, Measure: streakDays},
		{ID: "streak_7", Name: "Week Warrior", Description: "Reach a 7 day streak",
			Tier: TierRare, Target: 7, Mode: HighWater, Measure: streakDays, Reward: Reward{Gold: 25}},
		{ID: "streak_30", Name: "Unbreakable", Description: "Reach a 30 day streak",
			Tier: TierLegendary, Target: 30, Mode: HighWater, Measure: streakDays, Reward: Reward{Gold: 200, Title: "Unbreakable"}},

		{ID: "first_topic", Name: "Pathfinder", Description: "Unlock a topic",
			Tier: TierCommon, Target: 1, Measure: countTopics},
		{ID: "ten_topics", Name: "Cartographer", Description: "Unlock 10 topics",
			Tier: TierRare, Target: 10, Measure: countTopics, Reward: Reward{Gold: 30}},

		{ID: "night_owl", Name: "Night Owl", Description: "Study between midnight and 4am",
			Tier: TierRare, Target: 1, Measure: hourBetween(0, 4)},
		{ID: "early_bird", Name: "Early Bird", Description: "Study between 5am and 7am",
			Tier: TierRare, Target: 1, Measure: hourBetween(5, 7)},
	}
}
