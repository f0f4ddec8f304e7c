package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/ui/components"
)

var dungeonCmd = &cobra.Command{
	Use:   "dungeon",
	Short: "Multi-stage mission chains with a bonus reward",
}

var dungeonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dungeons and your progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			p := g.coord.Player()
			for _, d := range g.coord.Dungeons().All() {
				stage, cleared := 0, false
				if prog, ok := p.Dungeons[d.ID]; ok {
					stage, cleared = prog.Stage, prog.Completed
				}
				state := fmt.Sprintf("stage %d/%d", min(stage+1, len(d.Stages)), len(d.Stages))
				if cleared {
					state = "cleared"
				}
				fmt.Printf("%-20s  %-20s  %s\n", d.ID, d.Name, state)

				steps := make([]string, 0, len(d.Stages))
				for _, s := range d.Stages {
					steps = append(steps, fmt.Sprintf("%s %s", s.StudyType, components.Clock(s.RequiredDuration)))
				}
				fmt.Printf("    %s\n", strings.Join(steps, " → "))
				reward := fmt.Sprintf("    reward: %d gold, %.0f XP", d.FinalReward.Gold, d.FinalReward.XP)
				if d.FinalReward.Title != "" {
					reward += fmt.Sprintf(", title %q", d.FinalReward.Title)
				}
				fmt.Println(reward)
			}
			return nil
		})
	},
}

var dungeonEnterCmd = &cobra.Command{
	Use:   "enter <dungeon-id> <branch-id>",
	Short: "Create a mission for the dungeon's next stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			b, err := findBranch(g.coord, args[1])
			if err != nil {
				return err
			}
			m, err := g.coord.AddDungeonMission(args[0], b.Subject, b.Name)
			if err != nil {
				return err
			}
			fmt.Printf("Created dungeon mission %s: %s for %s\n",
				shortID(m.ID), m.StudyType, components.Clock(m.TotalDuration))
			return nil
		})
	},
}

func init() {
	dungeonCmd.AddCommand(dungeonListCmd)
	dungeonCmd.AddCommand(dungeonEnterCmd)
}
