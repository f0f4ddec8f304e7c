// Package achievements tracks achievement progress from progression events.
package achievements

// Event is a progression occurrence that can move achievement progress.
// The concrete types below are the complete set.
type Event interface {
	isEvent()
}

// MissionCompleted fires once per completed mission.
type MissionCompleted struct {
	Subject string
	Branch  string
	Seconds int
}

// GoldEarned fires after gold is credited. Balance is the player's gold on
// hand at that moment, not lifetime earnings, so spending lowers it.
type GoldEarned struct {
	Balance int
}

// StreakReached carries the current check-in streak in days.
type StreakReached struct {
	Days int
}

// TopicUnlocked fires for each topic unlocked by progress.
type TopicUnlocked struct {
	Branch string
	Topic  string
}

// LoginTime carries the local hour (0-23) of a session start or completion.
type LoginTime struct {
	Hour int
}

func (MissionCompleted) isEvent() {}
func (GoldEarned) isEvent()       {}
func (StreakReached) isEvent()    {}
func (TopicUnlocked) isEvent()    {}
func (LoginTime) isEvent()        {}
