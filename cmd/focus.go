package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyquest/internal/app"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/progression"
	"github.com/abhisek/studyquest/internal/ui/components"
)

var focusCmd = &cobra.Command{
	Use:   "focus <mission-id>",
	Short: "Run a mission's countdown in the foreground",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		return withGame(cmd, func(ctx context.Context, g *game) error {
			id, err := resolveMissionID(g.coord, args[0])
			if err != nil {
				return err
			}
			if plain {
				return runPlainFocus(ctx, g, id)
			}
			comp, err := app.Run(ctx, app.Options{Coordinator: g.coord, MissionID: id, Logger: g.logger})
			if err != nil {
				return err
			}
			if comp != nil {
				printCompletion(comp)
			}
			return nil
		})
	},
}

func init() {
	focusCmd.Flags().Bool("plain", false, "Print timer events instead of opening the full-screen view")
}

// runPlainFocus starts the mission and ticks it once per second until it
// completes or the user interrupts.
func runPlainFocus(ctx context.Context, g *game, id string) error {
	m, err := g.coord.StartMission(id)
	if err != nil {
		return err
	}
	fmt.Printf("Focusing on %s (%s left). Ctrl+C pauses.\n", m.Branch, components.Clock(m.TimeRemaining))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var comp *progression.Completion
	err = g.coord.Run(ctx, time.Second, func(out *progression.TickOutcome) {
		switch out.Event {
		case mission.TickBreakStarted:
			fmt.Printf("Break! %s to rest.\n", components.Clock(out.Mission.TimeRemaining))
		case mission.TickBreakEnded:
			fmt.Printf("Block %d: back to work.\n", out.Mission.PomodoroCycle)
		case mission.TickCompleted:
			comp = out.Completion
			cancel()
		}
	})
	if comp != nil {
		printCompletion(comp)
		return nil
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	if err := g.coord.PauseMission(id); err != nil {
		g.logger.Debug("pause on interrupt skipped", zap.Error(err))
	}
	fmt.Println("\nPaused.")
	return nil
}
