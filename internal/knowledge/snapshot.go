package knowledge

import (
	"github.com/abhisek/studyquest/internal/store"
	"go.uber.org/zap"
)

// SnapshotData exports every branch's dynamic state for persistence.
func (t *Tree) SnapshotData() *store.TreeSnapshotData {
	data := &store.TreeSnapshotData{
		Branches: make(map[string]*store.BranchStateData, len(t.branches)),
	}
	for id, b := range t.branches {
		bs := &store.BranchStateData{
			Unlocked:          b.Unlocked,
			AutoUnlocked:      b.AutoUnlocked,
			CurrentXP:         b.CurrentXP,
			TotalTimeSpent:    b.TotalTimeSpent,
			MissionsCompleted: b.MissionsCompleted,
			RemasterCount:     b.RemasterCount,
		}
		for _, tp := range b.Topics {
			if tp.Unlocked {
				bs.UnlockedTopics = append(bs.UnlockedTopics, tp.ID)
			}
		}
		data.Branches[id] = bs
	}
	return data
}

// Restore loads dynamic state from a snapshot. Branches or topics that no
// longer exist in the catalog are skipped.
func (t *Tree) Restore(data *store.TreeSnapshotData) {
	if data == nil {
		return
	}
	for id, bs := range data.Branches {
		b, ok := t.branches[id]
		if !ok {
			t.logger.Debug("snapshot branch not in catalog", zap.String("branch_id", id))
			continue
		}
		b.Unlocked = bs.Unlocked
		b.AutoUnlocked = bs.AutoUnlocked
		b.CurrentXP = bs.CurrentXP
		b.TotalTimeSpent = bs.TotalTimeSpent
		b.MissionsCompleted = bs.MissionsCompleted
		b.RemasterCount = bs.RemasterCount

		unlocked := make(map[string]bool, len(bs.UnlockedTopics))
		for _, tid := range bs.UnlockedTopics {
			unlocked[tid] = true
		}
		for _, tp := range b.Topics {
			tp.Unlocked = unlocked[tp.ID]
		}
	}
}
