package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableMissionEvents     = "mission_events"
	tableUnlockEvents      = "unlock_events"
	tableMasteryEvents     = "mastery_events"
	tableAchievementEvents = "achievement_events"
	tableSnapshots         = "snapshots"
)

// eventTable builds an event table. Every event table carries the same
// id/sequence/timestamp header so events of different kinds can be ordered
// against each other.
func eventTable(name string, columns ...*schema.Column) *schema.Table {
	header := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
	}
	cols := append(header, columns...)
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
		},
	}
}

func textCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Default: ""}
}

func floatCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeFloat64, Default: 0}
}

func intCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Default: 0}
}

var (
	missionEventsTable = eventTable(tableMissionEvents,
		textCol("action"), textCol("mission_id"), textCol("subject"), textCol("branch"),
		textCol("topic"), textCol("study_type"), textCol("source"), textCol("mood"),
		floatCol("xp"), intCol("gold"), floatCol("branch_xp"), intCol("time_spent"),
	)
	unlockEventsTable = eventTable(tableUnlockEvents,
		textCol("kind"), textCol("subject"), textCol("branch"), textCol("topic"), intCol("auto"),
	)
	masteryEventsTable = eventTable(tableMasteryEvents,
		textCol("subject"), textCol("branch"), textCol("level"),
		intCol("remaster_count"), floatCol("boost_granted"),
	)
	achievementEventsTable = eventTable(tableAchievementEvents,
		textCol("achievement_id"), textCol("name"), textCol("tier"),
	)

	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
	}
	snapshotsTable = &schema.Table{
		Name:       tableSnapshots,
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshots_timestamp", Columns: []*schema.Column{snapshotsColumns[2]}},
		},
	}

	tables = []*schema.Table{
		missionEventsTable,
		unlockEventsTable,
		masteryEventsTable,
		achievementEventsTable,
		snapshotsTable,
	}
)

func init() {
	missionEventsTable.Indexes = append(missionEventsTable.Indexes, &schema.Index{
		Name:    "mission_events_mission_id",
		Columns: []*schema.Column{missionEventsTable.Columns[4]},
	})
}

// migrate creates missing tables and columns.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
