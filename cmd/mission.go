package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/progression"
	"github.com/abhisek/studyquest/internal/ui/components"
)

var missionCmd = &cobra.Command{
	Use:     "mission",
	Aliases: []string{"m"},
	Short:   "Create and manage study missions",
}

var missionAddCmd = &cobra.Command{
	Use:   "add <branch-id>",
	Short: "Create a mission against a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		typ, _ := cmd.Flags().GetString("type")
		dur, _ := cmd.Flags().GetDuration("duration")
		pomodoro, _ := cmd.Flags().GetBool("pomodoro")

		studyType, err := mission.ParseStudyType(typ)
		if err != nil {
			return err
		}
		return withGame(cmd, func(_ context.Context, g *game) error {
			b, err := findBranch(g.coord, args[0])
			if err != nil {
				return err
			}
			m, err := g.coord.AddMission(mission.Params{
				Subject:   b.Subject,
				Branch:    b.Name,
				Topic:     topic,
				StudyType: studyType,
				Duration:  int(dur.Seconds()),
				Pomodoro:  pomodoro,
				Source:    mission.SourceManual,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created mission %s (%s, %s)\n", shortID(m.ID), m.Branch, components.Clock(m.TotalDuration))
			return nil
		})
	},
}

var missionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open missions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return withGame(cmd, func(_ context.Context, g *game) error {
			missions := g.coord.Missions()
			if all {
				missions = append(missions, g.coord.Player().Archive...)
			}
			if len(missions) == 0 {
				fmt.Println("No missions. Create one with: studyquest mission add <branch-id>")
				return nil
			}

			fmt.Printf("%-8s  %-18s  %-22s  %-12s  %9s  %s\n",
				"ID", "Branch", "Type", "Status", "Left", "Pomodoro")
			fmt.Println(strings.Repeat("─", 86))
			for _, m := range missions {
				pomo := ""
				if m.IsPomodoro {
					pomo = fmt.Sprintf("block %d", m.PomodoroCycle)
					if m.IsBreakTime {
						pomo += " (break)"
					}
				}
				fmt.Printf("%-8s  %-18s  %-22s  %-12s  %9s  %s\n",
					shortID(m.ID), m.Branch, m.StudyType, m.Status,
					components.Clock(m.TimeRemaining), pomo)
			}
			return nil
		})
	},
}

var missionStartCmd = &cobra.Command{
	Use:   "start <mission-id>",
	Short: "Start or resume a mission, pausing any other running one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			id, err := resolveMissionID(g.coord, args[0])
			if err != nil {
				return err
			}
			m, err := g.coord.StartMission(id)
			if err != nil {
				return err
			}
			fmt.Printf("Started %s: %s left. Run `studyquest focus %s` to keep the timer ticking.\n",
				shortID(m.ID), components.Clock(m.TimeRemaining), shortID(m.ID))
			return nil
		})
	},
}

var missionPauseCmd = &cobra.Command{
	Use:   "pause <mission-id>",
	Short: "Pause a running mission",
	Args:  cobra.ExactArgs(1),
	RunE: missionAction(func(_ context.Context, c *progression.Coordinator, id string) (string, error) {
		return "Paused.", c.PauseMission(id)
	}),
}

var missionFailCmd = &cobra.Command{
	Use:   "fail <mission-id>",
	Short: "Give up on a mission",
	Args:  cobra.ExactArgs(1),
	RunE: missionAction(func(ctx context.Context, c *progression.Coordinator, id string) (string, error) {
		if err := c.FailMission(ctx, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Mission failed. The monster is %s.", c.Player().Mood()), nil
	}),
}

var missionRetryCmd = &cobra.Command{
	Use:   "retry <mission-id>",
	Short: "Return a failed mission to pending",
	Args:  cobra.ExactArgs(1),
	RunE: missionAction(func(_ context.Context, c *progression.Coordinator, id string) (string, error) {
		return "Mission reset to pending.", c.RetryMission(id)
	}),
}

var missionScheduleCmd = &cobra.Command{
	Use:   "schedule <mission-id> <time>",
	Short: "Schedule a pending mission (RFC 3339 time or a delay like 2h)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseWhen(args[1], time.Now())
		if err != nil {
			return err
		}
		return missionAction(func(_ context.Context, c *progression.Coordinator, id string) (string, error) {
			return "Scheduled for " + at.Local().Format(time.DateTime) + ".", c.ScheduleMission(id, at)
		})(cmd, args[:1])
	},
}

var missionCompleteCmd = &cobra.Command{
	Use:   "complete <mission-id>",
	Short: "Finish a started mission now and collect its rewards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(ctx context.Context, g *game) error {
			id, err := resolveMissionID(g.coord, args[0])
			if err != nil {
				return err
			}
			comp, err := g.coord.CompleteMission(ctx, id)
			if progression.IsAlreadyCompleted(err) {
				fmt.Println("Mission already completed; rewards were applied once.")
				return nil
			}
			if err != nil {
				return err
			}
			printCompletion(comp)
			return nil
		})
	},
}

var missionPreviewCmd = &cobra.Command{
	Use:   "preview <mission-id>",
	Short: "Estimate a mission's rewards",
	Args:  cobra.ExactArgs(1),
	RunE: missionAction(func(_ context.Context, c *progression.Coordinator, id string) (string, error) {
		p, err := c.PreviewReward(id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Base %.1f XP / %d gold; with a %s monster %.1f XP / %d gold; branch +%.1f XP",
			p.Base.XP, p.Base.Gold, p.Mood, p.Credited.XP, p.Credited.Gold, p.BranchXP), nil
	}),
}

var missionReviewCmd = &cobra.Command{
	Use:   "review <mission-id> <rating 1-5> [notes]",
	Short: "Rate a completed mission",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rating int
		if _, err := fmt.Sscanf(args[1], "%d", &rating); err != nil {
			return apperr.Invalid("rating", fmt.Sprintf("not a number: %q", args[1]))
		}
		notes := ""
		if len(args) == 3 {
			notes = args[2]
		}
		return missionAction(func(ctx context.Context, c *progression.Coordinator, id string) (string, error) {
			if _, err := c.ReviewMission(ctx, id, rating, notes); err != nil {
				return "", err
			}
			return "Review saved.", nil
		})(cmd, args[:1])
	},
}

func init() {
	missionAddCmd.Flags().String("topic", "", "Topic within the branch")
	missionAddCmd.Flags().String("type", string(mission.StudyProblemSets), "Study type (e.g. reading, derivations, flashcards)")
	missionAddCmd.Flags().Duration("duration", 25*time.Minute, "Mission length")
	missionAddCmd.Flags().Bool("pomodoro", false, "Split the mission into study blocks and breaks")

	missionListCmd.Flags().Bool("all", false, "Include completed missions")

	missionCmd.AddCommand(missionAddCmd)
	missionCmd.AddCommand(missionListCmd)
	missionCmd.AddCommand(missionStartCmd)
	missionCmd.AddCommand(missionPauseCmd)
	missionCmd.AddCommand(missionFailCmd)
	missionCmd.AddCommand(missionRetryCmd)
	missionCmd.AddCommand(missionScheduleCmd)
	missionCmd.AddCommand(missionCompleteCmd)
	missionCmd.AddCommand(missionPreviewCmd)
	missionCmd.AddCommand(missionReviewCmd)
}

// missionAction adapts a single-mission operation into a RunE that resolves
// the ID argument and prints the returned message.
func missionAction(fn func(ctx context.Context, c *progression.Coordinator, id string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(ctx context.Context, g *game) error {
			id, err := resolveMissionID(g.coord, args[0])
			if err != nil {
				return err
			}
			msg, err := fn(ctx, g.coord, id)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		})
	}
}

// resolveMissionID expands a unique ID prefix over open and archived missions.
func resolveMissionID(c *progression.Coordinator, ref string) (string, error) {
	candidates := append(c.Missions(), c.Player().Archive...)
	var match string
	for _, m := range candidates {
		if m.ID == ref {
			return ref, nil
		}
		if strings.HasPrefix(m.ID, ref) {
			if match != "" && match != m.ID {
				return "", apperr.Invalid("mission", fmt.Sprintf("prefix %q is ambiguous", ref))
			}
			match = m.ID
		}
	}
	if match == "" {
		return "", apperr.NotFound("mission", ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseWhen accepts an RFC 3339 timestamp or a delay from now.
func parseWhen(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperr.Invalid("time", fmt.Sprintf("want RFC 3339 or a duration, got %q", s))
	}
	return t, nil
}

func printCompletion(c *progression.Completion) {
	fmt.Printf("Mission complete! +%.1f XP, +%d gold (monster was %s)\n",
		c.Credited.XP, c.Credited.Gold, c.Mood)
	fmt.Printf("%s gained %.1f XP. Streak: %d day(s).\n", c.Mission.Branch, c.BranchXP, c.Streak)
	for _, t := range c.UnlockedTopics {
		fmt.Printf("Unlocked topic: %s\n", t)
	}
	for _, a := range c.Achievements {
		fmt.Printf("Achievement unlocked: %s %s (%s)\n", a.Tier.Icon(), a.Name, a.Tier.DisplayName())
	}
	if d := c.DungeonCleared; d != nil {
		fmt.Printf("Dungeon cleared: %s! +%d gold, +%.0f XP", d.Name, d.FinalReward.Gold, d.FinalReward.XP)
		if d.FinalReward.Title != "" {
			fmt.Printf(", title %q", d.FinalReward.Title)
		}
		fmt.Println()
	}
}
