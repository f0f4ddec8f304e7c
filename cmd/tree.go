package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/progression"
	"github.com/abhisek/studyquest/internal/ui/components"
	"github.com/abhisek/studyquest/internal/ui/theme"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Browse the knowledge tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		return withGame(cmd, func(_ context.Context, g *game) error {
			views := g.coord.Branches()
			current := ""
			shown := 0
			for _, v := range views {
				if subject != "" && !strings.EqualFold(v.Subject, subject) {
					continue
				}
				if v.Subject != current {
					if current != "" {
						fmt.Println()
					}
					fmt.Println(theme.Title.Render(v.Subject))
					fmt.Println(strings.Repeat("─", 72))
					current = v.Subject
				}
				fmt.Printf("  %s %-18s  %-16s  %s\n",
					branchMarker(v), v.ID, v.Name,
					components.NewProgressBar("", v.Progress, true, 24).View())
				if !v.Unlocked && len(v.Blockers) > 0 {
					fmt.Println(theme.Hint.Render("      needs " + strings.Join(v.Blockers, "; ")))
				}
				shown++
			}
			if shown == 0 {
				return fmt.Errorf("no branches found for subject %q", subject)
			}
			return nil
		})
	},
}

var treeShowCmd = &cobra.Command{
	Use:   "show <branch-id>",
	Short: "Show a branch's topics and requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			v, err := findBranch(g.coord, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s %s (%s, %s)\n", branchMarker(v), theme.Title.Render(v.Name), v.Subject, v.Level)
			goal := string(v.Goal)
			if !v.HasGoal {
				goal = "standard (default)"
			}
			fmt.Printf("Goal:        %s  x%.3f  remastered %d\n", goal, v.Multiplier, v.RemasterCount)
			fmt.Printf("Progress:    %.1f / %.0f XP, %d / %d missions, %s / %s\n",
				v.CurrentXP, v.Totals.XP,
				v.MissionsCompleted, v.Totals.Missions,
				components.Clock(v.TotalTimeSpent), components.Clock(int(v.Totals.Time)))
			if !v.Unlocked {
				fmt.Printf("Unlockable:  %t\n", v.CanUnlock)
				for _, b := range v.Blockers {
					fmt.Println(theme.Hint.Render("  needs " + b))
				}
			}

			fmt.Println()
			fmt.Printf("  %-40s  %8s  %8s  %9s\n", "Topic", "XP", "Missions", "Time")
			fmt.Println("  " + strings.Repeat("─", 72))
			for _, t := range v.Topics {
				marker := theme.Locked.Render("○")
				if t.Unlocked {
					marker = theme.Unlocked.Render("●")
				}
				fmt.Printf("%s %-40s  %8.0f  %8d  %9s\n",
					marker, t.ID, t.Threshold.XP, t.Threshold.Missions, components.Clock(int(t.Threshold.Time)))
			}
			return nil
		})
	},
}

func init() {
	treeCmd.Flags().String("subject", "", "Only show one subject (e.g. Mathematics)")
	treeCmd.AddCommand(treeShowCmd)
}

// branchMarker renders a one-cell state marker for a branch.
func branchMarker(v progression.BranchView) string {
	switch {
	case v.Mastered:
		return theme.Mastered.Render("★")
	case v.Unlocked:
		return theme.Unlocked.Render("●")
	case v.CanUnlock:
		return theme.Available.Render("◐")
	default:
		return theme.Locked.Render("○")
	}
}

// findBranch looks a branch up by ID or display name.
func findBranch(c *progression.Coordinator, ref string) (progression.BranchView, error) {
	for _, v := range c.Branches() {
		if v.ID == ref || strings.EqualFold(v.Name, ref) {
			return v, nil
		}
	}
	return progression.BranchView{}, apperr.NotFound("branch", ref)
}
