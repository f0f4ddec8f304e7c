// Package progression sequences every mutation of player and knowledge tree
// state. The Coordinator is the single writer: each public operation holds
// one lock for its whole read-modify-write sequence.
package progression

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/studyquest/internal/achievements"
	"github.com/abhisek/studyquest/internal/dungeon"
	"github.com/abhisek/studyquest/internal/knowledge"
	"github.com/abhisek/studyquest/internal/mastery"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/player"
	"github.com/abhisek/studyquest/internal/shop"
	"github.com/abhisek/studyquest/internal/store"
	"github.com/abhisek/studyquest/internal/unlock"
	"go.uber.org/zap"
)

// ErrAlreadyCompleted is returned when a completion is submitted for a
// mission whose rewards were already applied.
var ErrAlreadyCompleted = errors.New("mission already completed")

// MonsterConfig tunes how missions move the procrastination meter.
type MonsterConfig struct {
	CompletionRelief float64
	FailurePenalty   float64
}

// DefaultMonster relieves one point per completion and adds two per failure.
func DefaultMonster() MonsterConfig {
	return MonsterConfig{CompletionRelief: 1, FailurePenalty: 2}
}

// Options configures a Coordinator. Zero values get defaults; Events and
// Snapshots may be nil to run without persistence. A nil Monster selects
// DefaultMonster, while a zero MonsterConfig turns the meter off.
type Options struct {
	Tree         *knowledge.Tree
	Player       *player.Player
	Dungeons     *dungeon.Catalog
	Achievements *achievements.Tracker
	Shop         *shop.Catalog
	Events       store.EventRepo
	Snapshots    store.SnapshotRepo

	Pomodoro      mission.PomodoroConfig
	Monster       *MonsterConfig
	SnapshotsKeep int

	Now    func() time.Time
	Logger *zap.Logger
}

// Coordinator owns the player aggregate, the knowledge tree and the mission
// board.
type Coordinator struct {
	mu sync.Mutex

	tree     *knowledge.Tree
	player   *player.Player
	board    *mission.Board
	engine   *unlock.Engine
	policy   *mastery.Policy
	dungeons *dungeon.Catalog
	tracker  *achievements.Tracker
	shop     *shop.Catalog

	events    store.EventRepo
	snapshots store.SnapshotRepo
	keep      int
	monster   MonsterConfig

	now    func() time.Time
	logger *zap.Logger
}

// New builds a coordinator from opts.
func New(opts Options) (*Coordinator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tree := opts.Tree
	if tree == nil {
		var err error
		if tree, err = knowledge.Default(logger); err != nil {
			return nil, err
		}
	}
	p := opts.Player
	if p == nil {
		p = player.New()
	}
	dungeons := opts.Dungeons
	if dungeons == nil {
		dungeons = dungeon.DefaultCatalog()
	}
	tracker := opts.Achievements
	if tracker == nil {
		tracker = achievements.NewTracker(achievements.DefaultRegistry(), logger)
	}
	catalog := opts.Shop
	if catalog == nil {
		catalog = shop.DefaultCatalog()
	}
	pomodoro := opts.Pomodoro
	if pomodoro.Study <= 0 || pomodoro.Break <= 0 {
		pomodoro = mission.DefaultPomodoro()
	}
	monster := DefaultMonster()
	if opts.Monster != nil {
		monster = *opts.Monster
	}
	keep := opts.SnapshotsKeep
	if keep <= 0 {
		keep = 5
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Coordinator{
		tree:      tree,
		player:    p,
		board:     mission.NewBoard(pomodoro, logger),
		engine:    unlock.New(tree, logger),
		policy:    mastery.NewPolicy(tree, logger),
		dungeons:  dungeons,
		tracker:   tracker,
		shop:      catalog,
		events:    opts.Events,
		snapshots: opts.Snapshots,
		keep:      keep,
		monster:   monster,
		now:       now,
		logger:    logger,
	}, nil
}

// Player returns a copy of the player for display.
func (c *Coordinator) Player() *player.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.Clone()
}

// Dungeons returns the dungeon catalog.
func (c *Coordinator) Dungeons() *dungeon.Catalog {
	return c.dungeons
}

// Shop returns the shop catalog.
func (c *Coordinator) Shop() *shop.Catalog {
	return c.shop
}

// Achievements returns the achievement table.
func (c *Coordinator) Achievements() []achievements.Achievement {
	return c.tracker.Registry()
}

// Pomodoro returns the configured block lengths.
func (c *Coordinator) Pomodoro() mission.PomodoroConfig {
	return c.board.Pomodoro()
}

// copyMission detaches a mission from board state for callers.
func copyMission(m *mission.Mission) *mission.Mission {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}

// History returns recent mission events, newest first.
func (c *Coordinator) History(ctx context.Context, limit int) ([]store.MissionEventRecord, error) {
	if c.events == nil {
		return nil, nil
	}
	return c.events.QueryMissionEvents(ctx, store.QueryOpts{Limit: limit})
}

// recordMission appends a mission event. Store failures are logged and never
// fail the game operation.
func (c *Coordinator) recordMission(ctx context.Context, data store.MissionEventData) {
	if c.events == nil {
		return
	}
	if err := c.events.AppendMissionEvent(ctx, data); err != nil {
		c.logger.Warn("append mission event failed", zap.String("mission_id", data.MissionID), zap.Error(err))
	}
}

func (c *Coordinator) recordUnlock(ctx context.Context, data store.UnlockEventData) {
	if c.events == nil {
		return
	}
	if err := c.events.AppendUnlockEvent(ctx, data); err != nil {
		c.logger.Warn("append unlock event failed", zap.String("branch", data.Branch), zap.Error(err))
	}
}

func (c *Coordinator) recordMastery(ctx context.Context, data store.MasteryEventData) {
	if c.events == nil {
		return
	}
	if err := c.events.AppendMasteryEvent(ctx, data); err != nil {
		c.logger.Warn("append mastery event failed", zap.String("branch", data.Branch), zap.Error(err))
	}
}

func (c *Coordinator) recordAchievements(ctx context.Context, unlocked []achievements.Achievement) {
	if c.events == nil {
		return
	}
	for _, a := range unlocked {
		err := c.events.AppendAchievementEvent(ctx, store.AchievementEventData{
			AchievementID: a.ID,
			Name:          a.Name,
			Tier:          string(a.Tier),
		})
		if err != nil {
			c.logger.Warn("append achievement event failed", zap.String("achievement", a.ID), zap.Error(err))
		}
	}
}
