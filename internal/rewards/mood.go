package rewards

import "math"

// Mood is the procrastination monster's temper, derived from its meter.
type Mood string

const (
	MoodContent  Mood = "content"
	MoodNeutral  Mood = "neutral"
	MoodAgitated Mood = "agitated"
	MoodFurious  Mood = "furious"
)

// MonsterMax caps the procrastination meter.
const MonsterMax = 10.0

// MoodFor maps a monster value to its mood.
func MoodFor(value float64) Mood {
	switch {
	case value < 2:
		return MoodContent
	case value < 5:
		return MoodNeutral
	case value < 8:
		return MoodAgitated
	default:
		return MoodFurious
	}
}

// GoldMultiplier returns the gold scaling for the mood.
func (m Mood) GoldMultiplier() float64 {
	switch m {
	case MoodContent:
		return 1.05
	case MoodAgitated:
		return 0.95
	case MoodFurious:
		return 0.90
	default:
		return 1.0
	}
}

// ApplyMood adjusts r for mood. Gold is floored after scaling and a furious
// monster takes all XP.
func ApplyMood(r Reward, mood Mood) Reward {
	out := Reward{
		XP:   r.XP,
		Gold: int(math.Floor(float64(r.Gold) * mood.GoldMultiplier())),
	}
	if mood == MoodFurious {
		out.XP = 0
	}
	return out
}
