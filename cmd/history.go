package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/ui/components"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent mission events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withGame(cmd, func(ctx context.Context, g *game) error {
			records, err := g.coord.History(ctx, limit)
			if err != nil {
				return fmt.Errorf("query history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No mission history yet.")
				return nil
			}
			fmt.Printf("%-16s  %-9s  %-18s  %-22s  %8s  %5s  %8s\n",
				"When", "Action", "Branch", "Type", "XP", "Gold", "Time")
			fmt.Println(strings.Repeat("─", 98))
			for _, r := range records {
				fmt.Printf("%-16s  %-9s  %-18s  %-22s  %8.1f  %5d  %8s\n",
					r.Timestamp.Local().Format("2006-01-02 15:04"), r.Action, r.Branch, r.StudyType,
					r.XP, r.Gold, components.Clock(r.TimeSpent))
			}
			return nil
		})
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and your progress toward them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			p := g.coord.Player()
			earned := 0
			for _, a := range g.coord.Achievements() {
				status := fmt.Sprintf("%d/%d", min(p.AchievementProgress(a.ID), a.Target), a.Target)
				if at, ok := p.Achievements[a.ID]; ok {
					status = "earned " + at.Local().Format(time.DateOnly)
					earned++
				}
				fmt.Printf("%s %-18s  %-9s  %-40s  %s\n",
					a.Tier.Icon(), a.Name, a.Tier.DisplayName(), a.Description, status)
			}
			fmt.Printf("\n%d achievements earned\n", earned)
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of events to show (0 = all)")
}
