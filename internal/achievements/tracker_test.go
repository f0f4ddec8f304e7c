package achievements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolder struct {
	unlocked map[string]time.Time
	progress map[string]int
	gold     int
	titles   []string
}

func newFakeHolder() *fakeHolder {
	return &fakeHolder{unlocked: map[string]time.Time{}, progress: map[string]int{}}
}

func (f *fakeHolder) AchievementUnlocked(id string) bool {
	_, ok := f.unlocked[id]
	return ok
}
func (f *fakeHolder) UnlockAchievement(id string, at time.Time)   { f.unlocked[id] = at }
func (f *fakeHolder) AchievementProgress(id string) int           { return f.progress[id] }
func (f *fakeHolder) SetAchievementProgress(id string, value int) { f.progress[id] = value }
func (f *fakeHolder) CreditGold(amount int)                       { f.gold += amount }
func (f *fakeHolder) GrantTitle(title string) bool {
	for _, t := range f.titles {
		if t == title {
			return false
		}
	}
	f.titles = append(f.titles, title)
	return true
}

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func ids(as []Achievement) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}

func TestProcess_CounterAchievements(t *testing.T) {
	tr := NewTracker(DefaultRegistry(), nil)
	h := newFakeHolder()

	got := tr.Process(MissionCompleted{Seconds: 600}, h, now)
	assert.Equal(t, []string{"first_mission"}, ids(got))

	for i := 0; i < 8; i++ {
		assert.Empty(t, tr.Process(MissionCompleted{Seconds: 600}, h, now))
	}
	got = tr.Process(MissionCompleted{Seconds: 600}, h, now)
	assert.Equal(t, []string{"ten_missions"}, ids(got))
	assert.Equal(t, 20, h.gold, "reward gold granted once")
	assert.Equal(t, 10, h.progress["ten_missions"])

	// Unlocked achievements stop accruing.
	tr.Process(MissionCompleted{Seconds: 600}, h, now)
	assert.Equal(t, 10, h.progress["ten_missions"])
	assert.Equal(t, 20, h.gold)
}

func TestProcess_HighWater(t *testing.T) {
	tr := NewTracker(DefaultRegistry(), nil)
	h := newFakeHolder()

	assert.Empty(t, tr.Process(StreakReached{Days: 2}, h, now))
	assert.Empty(t, tr.Process(StreakReached{Days: 1}, h, now))
	assert.Equal(t, 2, h.progress["streak_3"], "progress never drops")

	got := tr.Process(StreakReached{Days: 7}, h, now)
	assert.ElementsMatch(t, []string{"streak_3", "streak_7"}, ids(got))
	assert.Equal(t, 25, h.gold)
}

func TestProcess_TitleReward(t *testing.T) {
	tr := NewTracker(DefaultRegistry(), nil)
	h := newFakeHolder()

	got := tr.Process(GoldEarned{Balance: 1500}, h, now)
	assert.ElementsMatch(t, []string{"gold_100", "gold_1000"}, ids(got))
	assert.Equal(t, []string{"Hoarder"}, h.titles)
}

func TestProcess_GoldBalanceHighWater(t *testing.T) {
	tr := NewTracker(DefaultRegistry(), nil)
	h := newFakeHolder()

	assert.Empty(t, tr.Process(GoldEarned{Balance: 60}, h, now))
	assert.Equal(t, 60, h.progress["gold_100"])

	// Spending drops the balance but not the recorded best.
	assert.Empty(t, tr.Process(GoldEarned{Balance: 30}, h, now))
	assert.Equal(t, 60, h.progress["gold_100"])

	assert.Equal(t, []string{"gold_100"}, ids(tr.Process(GoldEarned{Balance: 100}, h, now)))
}

func TestProcess_LoginHour(t *testing.T) {
	tr := NewTracker(DefaultRegistry(), nil)
	h := newFakeHolder()

	assert.Empty(t, tr.Process(LoginTime{Hour: 12}, h, now))
	assert.Equal(t, []string{"night_owl"}, ids(tr.Process(LoginTime{Hour: 2}, h, now)))
	assert.Equal(t, []string{"early_bird"}, ids(tr.Process(LoginTime{Hour: 6}, h, now)))
}

func TestProcess_IrrelevantEvent(t *testing.T) {
	tr := NewTracker(DefaultRegistry(), nil)
	h := newFakeHolder()
	got := tr.Process(TopicUnlocked{Branch: "Algebra I"}, h, now)
	assert.Equal(t, []string{"first_topic"}, ids(got))
	assert.Zero(t, h.progress["first_mission"])
	assert.Zero(t, h.progress["gold_100"])
}

func TestRegistryIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range DefaultRegistry() {
		require.False(t, seen[a.ID], "duplicate achievement %s", a.ID)
		seen[a.ID] = true
		assert.Positive(t, a.Target, a.ID)
		assert.NotNil(t, a.Measure, a.ID)
	}
}
