package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset progress on a branch or topic",
}

var resetBranchCmd = &cobra.Command{
	Use:   "branch <branch-id>",
	Short: "Clear a branch's progress and re-lock its topics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			b, err := findBranch(g.coord, args[0])
			if err != nil {
				return err
			}
			if err := g.coord.ResetBranch(b.ID); err != nil {
				return err
			}
			fmt.Printf("%s reset.\n", b.Name)
			return nil
		})
	},
}

var resetTopicCmd = &cobra.Command{
	Use:   "topic <topic-id>",
	Short: "Subtract a topic's requirements from its branch and re-lock it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			if err := g.coord.ResetTopic(args[0]); err != nil {
				return err
			}
			fmt.Printf("%s reset.\n", args[0])
			return nil
		})
	},
}

func init() {
	resetCmd.AddCommand(resetBranchCmd)
	resetCmd.AddCommand(resetTopicCmd)
}
