package progression

import (
	"context"
	"fmt"

	"github.com/abhisek/studyquest/internal/mission"
	"github.com/abhisek/studyquest/internal/player"
	"github.com/abhisek/studyquest/internal/store"
	"go.uber.org/zap"
)

// snapshotVersion is bumped when SnapshotData changes incompatibly.
const snapshotVersion = 1

// Save writes a snapshot of the full game state and prunes old ones.
func (c *Coordinator) Save(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}
	c.mu.Lock()
	missions, running := c.board.SnapshotData()
	data := store.SnapshotData{
		Version:         snapshotVersion,
		Player:          c.player.SnapshotData(),
		Tree:            c.tree.SnapshotData(),
		Missions:        missions,
		ActiveMissionID: running,
	}
	c.mu.Unlock()

	var seq int64
	if c.events != nil {
		var err error
		if seq, err = c.events.LatestSequence(ctx); err != nil {
			return fmt.Errorf("latest sequence: %w", err)
		}
	}
	snap := &store.Snapshot{Sequence: seq, Timestamp: c.now(), Data: data}
	if err := c.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := c.snapshots.Prune(ctx, c.keep); err != nil {
		c.logger.Warn("prune snapshots failed", zap.Error(err))
	}
	return nil
}

// Load restores the latest snapshot. With no snapshot the state is left as
// constructed.
func (c *Coordinator) Load(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}
	snap, err := c.snapshots.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return nil
	}
	if snap.Data.Version > snapshotVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d", snap.Data.Version, snapshotVersion)
	}

	p, err := player.FromSnapshot(snap.Data.Player)
	if err != nil {
		return fmt.Errorf("restore player: %w", err)
	}
	board := mission.NewBoard(c.board.Pomodoro(), c.logger)
	if err := board.Restore(snap.Data.Missions, snap.Data.ActiveMissionID); err != nil {
		return fmt.Errorf("restore missions: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = p
	c.board = board
	c.tree.Restore(snap.Data.Tree)
	c.logger.Debug("snapshot restored", zap.Int("snapshot_id", snap.ID), zap.Int64("sequence", snap.Sequence))
	return nil
}
