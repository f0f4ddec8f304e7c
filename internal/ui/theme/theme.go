package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#10B981") // Emerald
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#F97316") // Orange
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Gold = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// Tree states
var (
	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Unlocked = lipgloss.NewStyle().
			Foreground(Text)

	Mastered = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Available = lipgloss.NewStyle().
			Foreground(Accent)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressBreak = lipgloss.NewStyle().
			Background(Accent)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// MoodStyle returns the style for a procrastination monster mood.
func MoodStyle(mood string) lipgloss.Style {
	switch mood {
	case "content":
		return lipgloss.NewStyle().Foreground(Success)
	case "agitated":
		return lipgloss.NewStyle().Foreground(Warning)
	case "furious":
		return lipgloss.NewStyle().Foreground(Error).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(TextDim)
	}
}

// TierStyle returns the style for an achievement tier.
func TierStyle(tier string) lipgloss.Style {
	switch tier {
	case "rare":
		return lipgloss.NewStyle().Foreground(Secondary)
	case "epic":
		return lipgloss.NewStyle().Foreground(Primary).Bold(true)
	case "legendary":
		return lipgloss.NewStyle().Foreground(Accent).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Text)
	}
}
