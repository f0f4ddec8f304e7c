package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo using the ent SQL driver.
type snapshotRepo struct {
	drv *entsql.Driver
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	query, args := entsql.Dialect(dialectName).
		Insert(tableSnapshots).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, toMillis(snap.Timestamp), string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	query, args := entsql.Dialect(dialectName).
		Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}

	var (
		snap Snapshot
		ts   int64
		raw  string
	)
	if err := rows.Scan(&snap.ID, &snap.Sequence, &ts, &raw); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	snap.Timestamp = fromMillis(ts)
	if err := json.Unmarshal([]byte(raw), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the newest snapshot that falls outside the keep window.
	query, args := entsql.Dialect(dialectName).
		Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Offset(keep).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return nil // fewer than keep snapshots exist
	}

	query, args = entsql.Dialect(dialectName).
		Delete(tableSnapshots).
		Where(entsql.LTE("id", threshold)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Count(ctx context.Context) (int, error) {
	query, args := entsql.Dialect(dialectName).
		Select(entsql.Count("*")).
		From(entsql.Table(tableSnapshots)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan snapshot count: %w", err)
		}
	}
	return n, rows.Err()
}
