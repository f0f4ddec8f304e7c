package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendMissionEvent(ctx context.Context, data MissionEventData) error {
	return r.insert(ctx, tableMissionEvents,
		[]string{"action", "mission_id", "subject", "branch", "topic", "study_type", "source", "mood", "xp", "gold", "branch_xp", "time_spent"},
		[]any{data.Action, data.MissionID, data.Subject, data.Branch, data.Topic, data.StudyType, data.Source, data.Mood, data.XP, data.Gold, data.BranchXP, data.TimeSpent},
	)
}

func (r *eventRepo) QueryMissionEvents(ctx context.Context, opts QueryOpts) ([]MissionEventRecord, error) {
	query, args := selectEvents(tableMissionEvents, opts,
		"action", "mission_id", "subject", "branch", "topic", "study_type", "source", "mood", "xp", "gold", "branch_xp", "time_spent")

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query mission events: %w", err)
	}
	defer rows.Close()

	var records []MissionEventRecord
	for rows.Next() {
		var (
			rec MissionEventRecord
			ts  int64
		)
		err := rows.Scan(&rec.Sequence, &ts,
			&rec.Action, &rec.MissionID, &rec.Subject, &rec.Branch, &rec.Topic,
			&rec.StudyType, &rec.Source, &rec.Mood, &rec.XP, &rec.Gold, &rec.BranchXP, &rec.TimeSpent)
		if err != nil {
			return nil, fmt.Errorf("scan mission event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}
