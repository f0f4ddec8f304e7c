package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/mastery"
)

var goalCmd = &cobra.Command{
	Use:   "goal <branch-id> <standard|proficient|mastery>",
	Short: "Set a branch's mastery goal",
	Long: "Set a branch's mastery goal. Higher goals scale every requirement up. " +
		"Setting a goal on a mastered branch starts a remaster: progress resets and requirements grow.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := mastery.ParseLevel(args[1])
		if err != nil {
			return err
		}
		return withGame(cmd, func(ctx context.Context, g *game) error {
			b, err := findBranch(g.coord, args[0])
			if err != nil {
				return err
			}
			change, err := g.coord.SetMasteryGoal(ctx, b.ID, level)
			if err != nil {
				return err
			}
			from := string(change.From)
			if from == "" {
				from = "none"
			}
			fmt.Printf("%s goal: %s -> %s\n", change.Branch, from, change.To)
			if change.Remastered {
				fmt.Printf("Remaster #%d started; progress reset.\n", change.RemasterCount)
			}
			if change.BoostGranted > 0 {
				fmt.Printf("Permanent %s XP boost +%.1f%%!\n", change.Subject, change.BoostGranted*100)
			}
			return nil
		})
	},
}

var declareCmd = &cobra.Command{
	Use:   "declare <branch-id>...",
	Short: "Declare branches you already know, unlocking them and their prerequisites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(ctx context.Context, g *game) error {
			names, err := g.coord.DeclareInitialSkills(ctx, args)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("Those branches were already unlocked.")
				return nil
			}
			fmt.Printf("Unlocked: %s\n", strings.Join(names, ", "))
			return nil
		})
	},
}
