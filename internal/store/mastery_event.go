package store

import "context"

func (r *eventRepo) AppendMasteryEvent(ctx context.Context, data MasteryEventData) error {
	return r.insert(ctx, tableMasteryEvents,
		[]string{"subject", "branch", "level", "remaster_count", "boost_granted"},
		[]any{data.Subject, data.Branch, data.Level, data.RemasterCount, data.BoostGranted},
	)
}

func (r *eventRepo) AppendAchievementEvent(ctx context.Context, data AchievementEventData) error {
	return r.insert(ctx, tableAchievementEvents,
		[]string{"achievement_id", "name", "tier"},
		[]any{data.AchievementID, data.Name, data.Tier},
	)
}
