package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/mastery"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/player"
	"github.com/abhisek/studyquest/internal/rewards"
	"github.com/abhisek/studyquest/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockEventRepo is a test double for store.EventRepo.
type mockEventRepo struct {
	missions     []store.MissionEventData
	unlocks      []store.UnlockEventData
	masteries    []store.MasteryEventData
	achievements []store.AchievementEventData
	err          error
}

func (m *mockEventRepo) AppendMissionEvent(_ context.Context, d store.MissionEventData) error {
	if m.err != nil {
		return m.err
	}
	m.missions = append(m.missions, d)
	return nil
}

func (m *mockEventRepo) AppendUnlockEvent(_ context.Context, d store.UnlockEventData) error {
	if m.err != nil {
		return m.err
	}
	m.unlocks = append(m.unlocks, d)
	return nil
}

func (m *mockEventRepo) AppendMasteryEvent(_ context.Context, d store.MasteryEventData) error {
	if m.err != nil {
		return m.err
	}
	m.masteries = append(m.masteries, d)
	return nil
}

func (m *mockEventRepo) AppendAchievementEvent(_ context.Context, d store.AchievementEventData) error {
	if m.err != nil {
		return m.err
	}
	m.achievements = append(m.achievements, d)
	return nil
}

func (m *mockEventRepo) QueryMissionEvents(context.Context, store.QueryOpts) ([]store.MissionEventRecord, error) {
	return nil, nil
}

func (m *mockEventRepo) QueryUnlockEvents(context.Context, store.QueryOpts) ([]store.UnlockEventRecord, error) {
	return nil, nil
}

func (m *mockEventRepo) LatestSequence(context.Context) (int64, error) {
	return int64(len(m.missions) + len(m.unlocks) + len(m.masteries) + len(m.achievements)), nil
}

type fixture struct {
	c      *Coordinator
	events *mockEventRepo
	now    time.Time
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{events: &mockEventRepo{}, now: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)}
	if opts.Events == nil {
		opts.Events = f.events
	}
	opts.Now = func() time.Time { return f.now }
	c, err := New(opts)
	require.NoError(t, err)
	f.c = c
	return f
}

func (f *fixture) add(t *testing.T, p mission.Params) *mission.Mission {
	t.Helper()
	if p.Subject == "" {
		p.Subject, p.Branch = "Mathematics", "Algebra I"
	}
	if p.StudyType == "" {
		p.StudyType = mission.StudyProblemSets
	}
	m, err := f.c.AddMission(p)
	require.NoError(t, err)
	return m
}

// run starts a mission and ticks it to completion.
func (f *fixture) run(t *testing.T, id string) *Completion {
	t.Helper()
	_, err := f.c.StartMission(id)
	require.NoError(t, err)
	for i := 0; i < 100000; i++ {
		out, err := f.c.Tick(context.Background())
		require.NoError(t, err)
		require.NotNil(t, out, "timer stopped before completion")
		if out.Completion != nil {
			return out.Completion
		}
	}
	t.Fatal("mission never completed")
	return nil
}

func TestCompleteMission_Scenario(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{StudyType: mission.StudyReviewingNotes, Duration: 1800})

	comp := f.run(t, m.ID)

	assert.InDelta(t, 67.5, comp.Base.XP, 1e-9)
	assert.Equal(t, 15, comp.Base.Gold)
	assert.Equal(t, rewards.MoodContent, comp.Mood)
	assert.InDelta(t, 67.5, comp.Credited.XP, 1e-9)
	assert.Equal(t, 15, comp.Credited.Gold)

	p := f.c.Player()
	assert.InDelta(t, 67.5, p.TotalXP, 1e-9)
	assert.Equal(t, 15, p.Gold)
	assert.Equal(t, 1, p.CheckInStreak)
	require.Len(t, p.Archive, 1)
	assert.True(t, p.Archive[0].RewardsApplied)
	assert.Equal(t, mission.StatusCompleted, p.Archive[0].Status)

	assert.Empty(t, f.c.Missions(), "completed mission leaves the board")
	_, ok := f.c.ActiveMission()
	assert.False(t, ok)

	require.Len(t, f.events.missions, 1)
	assert.Equal(t, "completed", f.events.missions[0].Action)
	assert.Equal(t, 1800, f.events.missions[0].TimeSpent)
}

func TestCompleteMission_Idempotent(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{Duration: 60})
	f.run(t, m.ID)
	before := f.c.Player()

	_, err := f.c.CompleteMission(context.Background(), m.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.True(t, IsAlreadyCompleted(err))

	after := f.c.Player()
	assert.Equal(t, before.Gold, after.Gold)
	assert.Equal(t, before.TotalXP, after.TotalXP)
	assert.Len(t, after.Archive, 1)
	assert.Len(t, f.events.missions, 1)
}

func TestComplete_SameInstanceTwice(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{Duration: 60})
	_, err := f.c.StartMission(m.ID)
	require.NoError(t, err)

	f.c.mu.Lock()
	inst, _ := f.c.board.Get(m.ID)
	_, err1 := f.c.complete(context.Background(), inst)
	_, err2 := f.c.complete(context.Background(), inst)
	gold := f.c.player.Gold
	archived := len(f.c.player.Archive)
	f.c.mu.Unlock()

	require.NoError(t, err1)
	assert.ErrorIs(t, err2, ErrAlreadyCompleted)
	assert.Equal(t, 1, gold)
	assert.Equal(t, 1, archived)
}

func TestCompleteMission_EarlyFinishAndUnknown(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{Duration: 600})

	_, err := f.c.CompleteMission(context.Background(), m.ID)
	var ve *apperr.ValidationError
	assert.True(t, errors.As(err, &ve), "pending missions cannot complete")

	_, err = f.c.StartMission(m.ID)
	require.NoError(t, err)
	for i := 0; i < 120; i++ {
		_, err := f.c.Tick(context.Background())
		require.NoError(t, err)
	}
	comp, err := f.c.CompleteMission(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, comp.Mission.ActualTimeSpent)
	assert.InDelta(t, 5.0, comp.Base.XP, 1e-9)

	_, err = f.c.CompleteMission(context.Background(), "nope")
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestCompleteMission_FuriousMonster(t *testing.T) {
	p := player.New()
	p.MonsterValue = 9
	f := newFixture(t, Options{Player: p})
	m := f.add(t, mission.Params{Subject: "History", Branch: "World History", StudyType: mission.StudyReading, Duration: 3600})

	comp := f.run(t, m.ID)
	assert.Equal(t, rewards.MoodFurious, comp.Mood)
	assert.Equal(t, 0.0, comp.Credited.XP)
	assert.Equal(t, 27, comp.Credited.Gold, "floor(30 * 0.90)")
	assert.Equal(t, 0.0, f.c.Player().TotalXP)
	assert.Equal(t, 8.0, f.c.Player().MonsterValue, "completion relieves the monster afterwards")
}

func TestCompleteMission_UnlocksTopicsAndBoostDiverges(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.c.SetMasteryGoal(ctx, "algebra-1", mastery.LevelStandard)
	require.NoError(t, err)
	f.c.mu.Lock()
	f.c.player.GrantBoost("Mathematics", 0.005)
	f.c.mu.Unlock()

	m := f.add(t, mission.Params{Duration: 1800})
	comp := f.run(t, m.ID)

	assert.InDelta(t, 75.0, comp.Credited.XP, 1e-9)
	assert.InDelta(t, 75.375, comp.BranchXP, 1e-9)
	assert.Equal(t, []string{"Linear Equations"}, comp.UnlockedTopics)

	var alg BranchView
	for _, b := range f.c.Branches() {
		if b.ID == "algebra-1" {
			alg = b
		}
	}
	assert.InDelta(t, 75.375, alg.CurrentXP, 1e-9)
	assert.InDelta(t, 75.0, f.c.Player().TotalXP, 1e-9, "player total keeps the unboosted figure")
	assert.Equal(t, 1, alg.MissionsCompleted)
	assert.Equal(t, 1800, alg.TotalTimeSpent)
	assert.True(t, alg.Topics[0].Unlocked)

	var topicEvents int
	for _, u := range f.events.unlocks {
		if u.Kind == "topic" {
			topicEvents++
		}
	}
	assert.Equal(t, 1, topicEvents)

	ids := map[string]bool{}
	for _, a := range comp.Achievements {
		ids[a.ID] = true
	}
	assert.True(t, ids["first_mission"])
	assert.True(t, ids["first_topic"])
}

func TestCompleteMission_LockedBranchGetsNoTopics(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{Duration: 1800})
	comp := f.run(t, m.ID)
	assert.Empty(t, comp.UnlockedTopics)
	for _, b := range f.c.Branches() {
		if b.ID == "algebra-1" {
			assert.Equal(t, 1, b.MissionsCompleted, "progress still accrues")
			assert.Zero(t, b.Progress)
		}
	}
}

func TestCompleteMission_StreakAcrossDays(t *testing.T) {
	f := newFixture(t, Options{})
	for day := 0; day < 3; day++ {
		m := f.add(t, mission.Params{Duration: 30})
		f.run(t, m.ID)
		f.now = f.now.Add(24 * time.Hour)
	}
	assert.Equal(t, 3, f.c.Player().CheckInStreak)

	f.now = f.now.Add(48 * time.Hour)
	m := f.add(t, mission.Params{Duration: 30})
	comp := f.run(t, m.ID)
	assert.Equal(t, 1, comp.Streak)
}

func TestCompleteMission_DungeonFinalRewardOnce(t *testing.T) {
	f := newFixture(t, Options{})
	var cleared int
	var goldFromStages int

	for i := 0; i < 3; i++ {
		m, err := f.c.AddDungeonMission("library-of-echoes", "Literature", "Composition")
		require.NoError(t, err)
		comp := f.run(t, m.ID)
		goldFromStages += comp.Credited.Gold
		if comp.DungeonCleared != nil {
			cleared++
			assert.Equal(t, 2, i, "only the final stage clears")
		}
	}
	assert.Equal(t, 1, cleared)

	p := f.c.Player()
	assert.True(t, p.Dungeons["library-of-echoes"].Completed)
	assert.True(t, p.HasTitle("Archivist"))

	var achievementGold int
	for _, rec := range f.events.achievements {
		for _, def := range f.c.Achievements() {
			if def.ID == rec.AchievementID {
				achievementGold += def.Reward.Gold
			}
		}
	}
	assert.Equal(t, goldFromStages+50+achievementGold, p.Gold)

	_, err := f.c.AddDungeonMission("library-of-echoes", "Literature", "Composition")
	var ve *apperr.ValidationError
	assert.True(t, errors.As(err, &ve), "cleared dungeon offers no more stages")
}

func TestCompleteMission_DungeonStageNeedsFullStudy(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	first, err := f.c.AddDungeonMission("library-of-echoes", "Literature", "Composition")
	require.NoError(t, err)
	assert.Equal(t, 0, first.DungeonStage)
	assert.Equal(t, mission.StudyReading, first.StudyType)

	_, err = f.c.AddDungeonMission("library-of-echoes", "Literature", "Composition")
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "one open mission per stage")

	// Finishing after a single second does not clear the stage.
	_, err = f.c.StartMission(first.ID)
	require.NoError(t, err)
	_, err = f.c.Tick(ctx)
	require.NoError(t, err)
	comp, err := f.c.CompleteMission(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, comp.DungeonCleared)

	p := f.c.Player()
	assert.Equal(t, 0, p.Dungeons["library-of-echoes"].Stage)
	assert.False(t, p.HasTitle("Archivist"))

	// The stage is offered again and clears once studied in full.
	retry, err := f.c.AddDungeonMission("library-of-echoes", "Literature", "Composition")
	require.NoError(t, err)
	assert.Equal(t, 0, retry.DungeonStage)
	f.run(t, retry.ID)

	next, err := f.c.AddDungeonMission("library-of-echoes", "Literature", "Composition")
	require.NoError(t, err)
	assert.Equal(t, 1, next.DungeonStage)
	assert.Equal(t, mission.StudyReviewingNotes, next.StudyType)
	assert.Equal(t, 1, f.c.Player().Dungeons["library-of-echoes"].Stage)
}

func TestSetMasteryGoal_RejectsUnknownLevel(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.c.SetMasteryGoal(ctx, "geometry", mastery.Level("expert"))
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "level", ve.Field)

	p := f.c.Player()
	assert.Empty(t, p.BranchMastery)
	assert.Empty(t, f.events.masteries)
	assert.Empty(t, f.events.unlocks, "rejected goal must not unlock the branch")
	for _, v := range f.c.Branches() {
		if v.ID == "geometry" {
			assert.False(t, v.Unlocked)
		}
	}
}

func TestSetMasteryGoal_LockedBranch(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.c.SetMasteryGoal(ctx, "geometry", mastery.LevelStandard)
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "geometry needs Algebra I first")
	assert.Equal(t, mastery.LevelStandard, f.c.GoalFor("Geometry"))
	_, has := f.c.Player().Goal("Geometry")
	assert.False(t, has)

	_, err = f.c.SetMasteryGoal(ctx, "algebra-1", mastery.LevelProficient)
	require.NoError(t, err)
	require.Len(t, f.events.unlocks, 1)
	assert.Equal(t, "branch", f.events.unlocks[0].Kind)
	require.Len(t, f.events.masteries, 1)

	_, err = f.c.SetMasteryGoal(ctx, "missing", mastery.LevelStandard)
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestSetMasteryGoal_Remaster(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	names, err := f.c.DeclareInitialSkills(ctx, []string{"geometry"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Geometry", "Algebra I"}, names)

	change, err := f.c.SetMasteryGoal(ctx, "algebra-1", mastery.LevelProficient)
	require.NoError(t, err)
	assert.True(t, change.Remastered)
	assert.Equal(t, 1, change.RemasterCount)
	assert.Equal(t, mastery.RemasterBoost, f.c.Player().Boost("Mathematics"))

	for _, b := range f.c.Branches() {
		if b.ID != "algebra-1" {
			continue
		}
		assert.True(t, b.Unlocked)
		assert.False(t, b.Mastered)
		assert.InDelta(t, 1.5625, b.Multiplier, 1e-9)
		for _, tp := range b.Topics {
			assert.False(t, tp.Unlocked)
		}
	}

	// Geometry is mastered too, but Mathematics already has its boost.
	change, err = f.c.SetMasteryGoal(ctx, "geometry", mastery.LevelStandard)
	require.NoError(t, err)
	assert.True(t, change.Remastered)
	assert.Zero(t, change.BoostGranted)
	assert.Equal(t, mastery.RemasterBoost, f.c.Player().Boost("Mathematics"))
}

func TestDeclareInitialSkills_UnknownIsAtomic(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.c.DeclareInitialSkills(context.Background(), []string{"algebra-1", "nope"})
	require.Error(t, err)
	for _, b := range f.c.Branches() {
		assert.False(t, b.Unlocked, b.ID)
	}
}

func TestResetTopicAndBranch(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.c.DeclareInitialSkills(context.Background(), []string{"algebra-1"})
	require.NoError(t, err)

	require.NoError(t, f.c.ResetTopic("algebra-1/quadratics"))
	var ve *apperr.ValidationError
	assert.True(t, errors.As(f.c.ResetTopic("algebra-1/quadratics"), &ve))

	for _, b := range f.c.Branches() {
		if b.ID == "algebra-1" {
			// Auto unlock never accrued progress, so totals go negative.
			assert.Equal(t, -600.0, b.CurrentXP)
			assert.Equal(t, -10, b.MissionsCompleted)
		}
	}

	require.NoError(t, f.c.ResetBranch("algebra-1"))
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(f.c.ResetBranch("nope"), &nf))
	assert.True(t, errors.As(f.c.ResetTopic("nope"), &nf))
}

func TestMonsterDisabledByZeroConfig(t *testing.T) {
	pl := player.New()
	pl.MonsterValue = 5
	f := newFixture(t, Options{Player: pl, Monster: &MonsterConfig{}})

	failed := f.add(t, mission.Params{Duration: 600})
	_, err := f.c.StartMission(failed.ID)
	require.NoError(t, err)
	require.NoError(t, f.c.FailMission(context.Background(), failed.ID))
	assert.Equal(t, 5.0, f.c.Player().MonsterValue)

	done := f.add(t, mission.Params{Duration: 30})
	f.run(t, done.ID)
	assert.Equal(t, 5.0, f.c.Player().MonsterValue)
}

func TestMonsterDefaultsWhenUnset(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{Duration: 600})
	_, err := f.c.StartMission(m.ID)
	require.NoError(t, err)
	require.NoError(t, f.c.FailMission(context.Background(), m.ID))
	assert.Equal(t, DefaultMonster().FailurePenalty, f.c.Player().MonsterValue)
}

func TestFailAndRetry(t *testing.T) {
	f := newFixture(t, Options{Monster: &MonsterConfig{CompletionRelief: 1, FailurePenalty: 3}})
	m := f.add(t, mission.Params{Duration: 600})
	_, err := f.c.StartMission(m.ID)
	require.NoError(t, err)

	require.NoError(t, f.c.FailMission(context.Background(), m.ID))
	assert.Equal(t, 3.0, f.c.Player().MonsterValue)
	require.Len(t, f.events.missions, 1)
	assert.Equal(t, "failed", f.events.missions[0].Action)

	require.NoError(t, f.c.RetryMission(m.ID))
	got, ok := f.c.Mission(m.ID)
	require.True(t, ok)
	assert.Equal(t, mission.StatusPending, got.Status)
	assert.Equal(t, 600, got.TimeRemaining)
}

func TestStartMission_SingleActive(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.add(t, mission.Params{Duration: 600})
	b := f.add(t, mission.Params{Duration: 600})

	_, err := f.c.StartMission(a.ID)
	require.NoError(t, err)
	_, err = f.c.StartMission(b.ID)
	require.NoError(t, err)

	got, _ := f.c.Mission(a.ID)
	assert.Equal(t, mission.StatusPaused, got.Status)
	active, ok := f.c.ActiveMission()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)
}

func TestAddMission_UnknownBranch(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.c.AddMission(mission.Params{Subject: "Mathematics", Branch: "Topology", Duration: 60})
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))

	_, err = f.c.AddMission(mission.Params{Subject: "Mathematics", Branch: "Algebra I", Duration: 600, Pomodoro: true})
	var ve *apperr.ValidationError
	assert.True(t, errors.As(err, &ve), "pomodoro needs a full study block")
}

func TestPurchase(t *testing.T) {
	p := player.New()
	p.Gold = 20
	p.MonsterValue = 5
	f := newFixture(t, Options{Player: p})

	_, err := f.c.Purchase("logic-tome")
	var ire *apperr.InsufficientResourceError
	require.True(t, errors.As(err, &ire))
	assert.Equal(t, 20, f.c.Player().Gold)

	item, err := f.c.Purchase("herbal-tea")
	require.NoError(t, err)
	assert.Equal(t, 15, item.Price)
	got := f.c.Player()
	assert.Equal(t, 5, got.Gold)
	assert.Equal(t, 3.0, got.MonsterValue)

	require.NoError(t, f.c.SpendGold(5))
	assert.True(t, errors.As(f.c.SpendGold(1), &ire))
}

func TestReviewMission_ReplacesArchiveEntry(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{Duration: 60})
	f.run(t, m.ID)

	reviewed, err := f.c.ReviewMission(context.Background(), m.ID, 4, "solid session")
	require.NoError(t, err)
	assert.Equal(t, 4, reviewed.Rating)
	require.NotNil(t, reviewed.ReviewedAt)

	p := f.c.Player()
	require.Len(t, p.Archive, 1)
	assert.Equal(t, "solid session", p.Archive[0].Notes)
	assert.True(t, p.Archive[0].RewardsApplied)

	var ve *apperr.ValidationError
	_, err = f.c.ReviewMission(context.Background(), m.ID, 9, "")
	assert.True(t, errors.As(err, &ve))
}

func TestPreviewReward_DoesNotMutate(t *testing.T) {
	p := player.New()
	p.MonsterValue = 6
	f := newFixture(t, Options{Player: p})
	m := f.add(t, mission.Params{Duration: 3600})

	prev, err := f.c.PreviewReward(m.ID)
	require.NoError(t, err)
	assert.Equal(t, rewards.MoodAgitated, prev.Mood)
	assert.Equal(t, 30, prev.Base.Gold)
	assert.Equal(t, 28, prev.Credited.Gold)

	got := f.c.Player()
	assert.Zero(t, got.Gold)
	assert.Zero(t, got.TotalXP)
	still, _ := f.c.Mission(m.ID)
	assert.Equal(t, mission.StatusPending, still.Status)
}

func TestEventStoreFailureIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := &mockEventRepo{err: errors.New("disk full")}
	f := newFixture(t, Options{Events: repo, Logger: zap.New(core)})
	m := f.add(t, mission.Params{Duration: 30})

	comp := f.run(t, m.ID)
	require.NotNil(t, comp)
	assert.Equal(t, 1, f.c.Player().Gold)
	assert.NotZero(t, logs.FilterMessage("append mission event failed").Len())
}

func TestRecordLogin(t *testing.T) {
	f := newFixture(t, Options{})
	f.now = time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC)
	got := f.c.RecordLogin(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "night_owl", got[0].ID)
	assert.Empty(t, f.c.RecordLogin(context.Background()))
}

func TestPomodoroMissionThroughCoordinator(t *testing.T) {
	f := newFixture(t, Options{Pomodoro: mission.PomodoroConfig{Study: 20, Break: 5}})
	m := f.add(t, mission.Params{Duration: 50, Pomodoro: true})
	_, err := f.c.StartMission(m.ID)
	require.NoError(t, err)

	var events []mission.TickEvent
	var comp *Completion
	for comp == nil {
		out, err := f.c.Tick(context.Background())
		require.NoError(t, err)
		require.NotNil(t, out)
		if out.Event == mission.TickBreakStarted {
			_, ok := f.c.ActiveMission()
			assert.False(t, ok, "break clears the active slot")
		}
		if out.Event != mission.TickNone {
			events = append(events, out.Event)
		}
		comp = out.Completion
	}
	assert.Equal(t, []mission.TickEvent{
		mission.TickBreakStarted, mission.TickBreakEnded,
		mission.TickBreakStarted, mission.TickBreakEnded,
		mission.TickCompleted,
	}, events)
	assert.Equal(t, 50, comp.Mission.ActualTimeSpent)
	assert.Equal(t, 3, comp.Mission.PomodoroCycle)
}

func TestRun_CompletesAndStops(t *testing.T) {
	f := newFixture(t, Options{})
	m := f.add(t, mission.Params{Duration: 3})
	_, err := f.c.StartMission(m.ID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var done *Completion
	err = f.c.Run(ctx, time.Millisecond, func(out *TickOutcome) {
		if out.Completion != nil {
			done = out.Completion
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, done)
	assert.Equal(t, m.ID, done.Mission.ID)
}
