package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyquest/internal/config"
	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/progression"
	"github.com/abhisek/studyquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "studyquest",
	Short:         "Turn study sessions into a role-playing game",
	Long:          "StudyQuest tracks timed study missions, unlocks a knowledge tree as you master it, and rewards you with XP, gold and achievements.",
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsCmd.RunE(cmd, args)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides config and STUDYQUEST_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides STUDYQUEST_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(missionCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(declareCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(dungeonCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(versionCmd)
}

// game bundles everything a command needs to drive the coordinator.
type game struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	coord  *progression.Coordinator
}

// loadConfig reads the config file named by --config or the default path,
// then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}

// openGame wires config, logging, storage and the coordinator, and restores
// the latest snapshot.
func openGame(cmd *cobra.Command) (*game, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	study, brk := cfg.PomodoroSeconds()
	monster := progression.MonsterConfig(cfg.Monster)
	coord, err := progression.New(progression.Options{
		Events:        st.EventRepo(),
		Snapshots:     st.SnapshotRepo(),
		Pomodoro:      mission.PomodoroConfig{Study: study, Break: brk},
		Monster:       &monster,
		SnapshotsKeep: cfg.Snapshots.Keep,
		Logger:        logger,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := coord.Load(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("load game: %w", err)
	}
	logger.Debug("game opened", zap.String("db", dbPath))
	return &game{cfg: cfg, logger: logger, store: st, coord: coord}, nil
}

// close saves a snapshot and releases the store.
func (g *game) close(ctx context.Context) error {
	defer g.logger.Sync() //nolint:errcheck
	saveErr := g.coord.Save(ctx)
	if err := g.store.Close(); err != nil && saveErr == nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("save game: %w", saveErr)
	}
	return nil
}

// withGame opens the game, runs fn and saves on the way out.
func withGame(cmd *cobra.Command, fn func(ctx context.Context, g *game) error) error {
	g, err := openGame(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := fn(ctx, g); err != nil {
		g.close(ctx) //nolint:errcheck
		return err
	}
	return g.close(ctx)
}
