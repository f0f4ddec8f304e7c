package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendUnlockEvent(ctx context.Context, data UnlockEventData) error {
	auto := 0
	if data.Auto {
		auto = 1
	}
	return r.insert(ctx, tableUnlockEvents,
		[]string{"kind", "subject", "branch", "topic", "auto"},
		[]any{data.Kind, data.Subject, data.Branch, data.Topic, auto},
	)
}

func (r *eventRepo) QueryUnlockEvents(ctx context.Context, opts QueryOpts) ([]UnlockEventRecord, error) {
	query, args := selectEvents(tableUnlockEvents, opts, "kind", "subject", "branch", "topic", "auto")

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query unlock events: %w", err)
	}
	defer rows.Close()

	var records []UnlockEventRecord
	for rows.Next() {
		var (
			rec  UnlockEventRecord
			ts   int64
			auto int
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.Kind, &rec.Subject, &rec.Branch, &rec.Topic, &auto); err != nil {
			return nil, fmt.Errorf("scan unlock event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		rec.Auto = auto != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}
