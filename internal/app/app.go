// Package app hosts the full-screen focus timer for a single mission.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyquest/internal/apperr"
	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/progression"
	"github.com/abhisek/studyquest/internal/ui/components"
	"github.com/abhisek/studyquest/internal/ui/layout"
	"github.com/abhisek/studyquest/internal/ui/theme"
)

// Options configures the focus screen.
type Options struct {
	Coordinator *progression.Coordinator
	MissionID   string
	Logger      *zap.Logger
}

// tickMsg fires once per wall-clock second.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the root Bubble Tea model of the focus screen.
type Model struct {
	ctx    context.Context
	coord  *progression.Coordinator
	logger *zap.Logger

	missionID  string
	mission    *mission.Mission
	completion *progression.Completion
	status     string
	err        error

	width  int
	height int
}

// New builds a focus model for an open mission.
func New(ctx context.Context, opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m, ok := opts.Coordinator.Mission(opts.MissionID)
	if !ok {
		return Model{}, apperr.NotFound("mission", opts.MissionID)
	}
	return Model{
		ctx:       ctx,
		coord:     opts.Coordinator,
		logger:    logger,
		missionID: opts.MissionID,
		mission:   m,
	}, nil
}

// Completion returns the completion summary once the mission has finished.
func (m Model) Completion() *progression.Completion {
	return m.completion
}

// Err returns the error that stopped the screen, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.completion != nil {
			return m, nil
		}
		// Another mission may hold the timer; leave it alone.
		if running, ok := m.coord.RunningMission(); !ok || running.ID != m.missionID {
			return m, tick()
		}
		out, err := m.coord.Tick(m.ctx)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		if out != nil {
			m.onTick(out)
		}
		if m.completion != nil {
			m.save()
			return m, nil
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) onTick(out *progression.TickOutcome) {
	if out.Mission == nil || out.Mission.ID != m.missionID {
		return
	}
	m.mission = out.Mission
	switch out.Event {
	case mission.TickBreakStarted:
		m.status = "Break time. Stretch and breathe."
	case mission.TickBreakEnded:
		m.status = fmt.Sprintf("Back to it: block %d.", out.Mission.PomodoroCycle)
	case mission.TickCompleted:
		m.completion = out.Completion
		m.status = "Mission complete!"
	}
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.save()
		return m, tea.Quit
	}
	if m.completion != nil {
		return m, nil
	}

	switch key {
	case "s":
		updated, err := m.coord.StartMission(m.missionID)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.mission = updated
		m.status = "Timer running."
	case "p":
		if err := m.coord.PauseMission(m.missionID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.refresh()
		m.status = "Paused."
	case "f":
		if err := m.coord.FailMission(m.ctx, m.missionID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.refresh()
		m.status = "Mission abandoned. The monster grows."
	case "c":
		comp, err := m.coord.CompleteMission(m.ctx, m.missionID)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.completion = comp
		m.mission = comp.Mission
		m.status = "Mission complete!"
		m.save()
	}
	return m, nil
}

func (m *Model) refresh() {
	if updated, ok := m.coord.Mission(m.missionID); ok {
		m.mission = updated
	}
}

func (m Model) save() {
	if err := m.coord.Save(m.ctx); err != nil {
		m.logger.Warn("save snapshot failed", zap.Error(err))
	}
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	p := m.coord.Player()
	header := layout.RenderHeader("Focus", p.Gold, p.CheckInStreak, m.width)

	hints := []layout.KeyHint{
		{Key: "s", Description: "Start"},
		{Key: "p", Description: "Pause"},
		{Key: "c", Description: "Finish"},
		{Key: "f", Description: "Give up"},
		{Key: "q", Description: "Quit"},
	}
	if m.completion != nil {
		hints = []layout.KeyHint{{Key: "q", Description: "Quit"}}
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.renderBody(string(p.Mood()))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m Model) renderBody(mood string) string {
	cw := components.ContentWidth(m.width)
	mi := m.mission

	var b strings.Builder
	b.WriteString(theme.Title.Render(mi.Branch))
	if mi.Topic != "" {
		b.WriteString(theme.Subtitle.Render("  " + mi.Topic))
	}
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %s", mi.Subject, mi.StudyType)))
	b.WriteString("\n\n")

	if m.completion != nil {
		b.WriteString(renderCompletion(m.completion))
	} else {
		b.WriteString(m.renderTimer(cw))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Monster: ") + theme.MoodStyle(mood).Render(mood))
	if m.status != "" {
		b.WriteString("\n" + theme.Hint.Render(m.status))
	}
	return components.Card(b.String(), cw)
}

func (m Model) renderTimer(cw int) string {
	mi := m.mission
	label := "Study"
	block := mi.TotalDuration
	if mi.IsPomodoro {
		cfg := m.coord.Pomodoro()
		label = fmt.Sprintf("Block %d", max(mi.PomodoroCycle, 1))
		block = min(cfg.Study, mi.TotalDuration)
		if mi.IsBreakTime {
			label = "Break"
			block = cfg.Break
		}
	}

	done := 0.0
	if block > 0 {
		done = 1 - float64(mi.TimeRemaining)/float64(block)
	}
	bar := components.NewProgressBar(label, done, true, max(cw-8, 20))
	if mi.IsBreakTime {
		bar.Fill = theme.ProgressBreak
	}

	clock := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(components.Clock(mi.TimeRemaining))
	return clock + "  " + theme.Subtitle.Render(string(mi.Status)) + "\n\n" + bar.View() +
		"\n" + theme.Hint.Render("Studied "+components.Clock(mi.ActualTimeSpent))
}

func renderCompletion(c *progression.Completion) string {
	var b strings.Builder
	b.WriteString(theme.Gold.Render(fmt.Sprintf("+%d gold  +%.1f XP", c.Credited.Gold, c.Credited.XP)))
	b.WriteString("\n" + theme.Subtitle.Render(fmt.Sprintf("Branch XP +%.1f · streak %d", c.BranchXP, c.Streak)))
	for _, t := range c.UnlockedTopics {
		b.WriteString("\n" + theme.Available.Render("Unlocked topic: "+t))
	}
	for _, a := range c.Achievements {
		b.WriteString("\n" + theme.TierStyle(string(a.Tier)).Render(a.Tier.Icon()+" "+a.Name))
	}
	if c.DungeonCleared != nil {
		b.WriteString("\n" + theme.Mastered.Render("Dungeon cleared: "+c.DungeonCleared.Name))
	}
	return b.String()
}

// Run starts the focus screen and returns the completion, if the mission
// finished while it was open.
func Run(ctx context.Context, opts Options) (*progression.Completion, error) {
	model, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("run focus screen: %w", err)
	}
	fm := final.(Model)
	return fm.Completion(), fm.Err()
}
