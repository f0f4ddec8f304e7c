package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/ui/components"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"status"},
	Short:   "Show gold, XP, streak, stats and the running mission",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(ctx context.Context, g *game) error {
			for _, a := range g.coord.RecordLogin(ctx) {
				fmt.Printf("Achievement unlocked: %s %s\n", a.Tier.Icon(), a.Name)
			}

			p := g.coord.Player()
			fmt.Printf("Gold:     %d\n", p.Gold)
			fmt.Printf("XP:       %.1f\n", p.TotalXP)
			fmt.Printf("Streak:   %d day(s)\n", p.CheckInStreak)
			fmt.Printf("Monster:  %.1f (%s)\n", p.MonsterValue, p.Mood())

			names := make([]string, 0, len(p.Stats))
			for name := range p.Stats {
				names = append(names, name)
			}
			sort.Strings(names)
			parts := make([]string, 0, len(names))
			for _, name := range names {
				parts = append(parts, fmt.Sprintf("%s %d", name, p.Stats[name]))
			}
			fmt.Printf("Stats:    %s\n", strings.Join(parts, ", "))

			if len(p.Titles) > 0 {
				fmt.Printf("Titles:   %s\n", strings.Join(p.Titles, ", "))
			}
			if len(p.PermanentXPBoosts) > 0 {
				for subject, boost := range p.PermanentXPBoosts {
					fmt.Printf("Boost:    %s +%.1f%%\n", subject, boost*100)
				}
			}

			if m, ok := g.coord.RunningMission(); ok {
				state := "studying"
				if m.IsBreakTime {
					state = "on break"
				}
				fmt.Printf("\nRunning:  %s / %s (%s, %s left)\n",
					m.Branch, m.StudyType, state, components.Clock(m.TimeRemaining))
			}
			return nil
		})
	},
}
