package knowledge

import (
	"slices"

	"go.uber.org/zap"
)

// topicRef locates a topic within its branch.
type topicRef struct {
	topic  *Topic
	branch *Branch
}

// Tree holds the subject catalog with lookup indices. Branch and topic
// pointers handed out by the tree are owned by it.
type Tree struct {
	subjects   []*Subject
	byName     map[string]*Subject
	branches   map[string]*Branch
	branchName map[string]*Branch
	subjectOf  map[string]*Subject
	topics     map[string]topicRef
	logger     *zap.Logger
}

// New validates the catalog and builds a tree over it.
func New(subjects []*Subject, logger *zap.Logger) (*Tree, error) {
	if err := validateSubjects(subjects); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Tree{
		subjects:   subjects,
		byName:     make(map[string]*Subject, len(subjects)),
		branches:   make(map[string]*Branch),
		branchName: make(map[string]*Branch),
		subjectOf:  make(map[string]*Subject),
		topics:     make(map[string]topicRef),
		logger:     logger,
	}
	for _, s := range subjects {
		t.byName[s.Name] = s
		for _, b := range s.Branches {
			t.branches[b.ID] = b
			t.branchName[b.Name] = b
			t.subjectOf[b.ID] = s
			for _, tp := range b.Topics {
				t.topics[tp.ID] = topicRef{topic: tp, branch: b}
			}
		}
	}
	return t, nil
}

// Default builds a tree over a fresh copy of the built-in catalog.
func Default(logger *zap.Logger) (*Tree, error) {
	return New(DefaultCatalog(), logger)
}

// Subjects returns all subjects in catalog order.
func (t *Tree) Subjects() []*Subject {
	return slices.Clone(t.subjects)
}

// Subject returns the subject with the given name.
func (t *Tree) Subject(name string) (*Subject, bool) {
	s, ok := t.byName[name]
	if !ok {
		t.logger.Debug("subject not found", zap.String("subject", name))
	}
	return s, ok
}

// SubjectOf returns the subject that contains b.
func (t *Tree) SubjectOf(b *Branch) *Subject {
	return t.subjectOf[b.ID]
}

// Branches returns every branch in catalog order.
func (t *Tree) Branches() []*Branch {
	var out []*Branch
	for _, s := range t.subjects {
		out = append(out, s.Branches...)
	}
	return out
}

// FindBranch looks a branch up by ID. Absence is reported, never an error.
func (t *Tree) FindBranch(id string) (*Branch, bool) {
	b, ok := t.branches[id]
	if !ok {
		t.logger.Debug("branch not found", zap.String("branch_id", id))
	}
	return b, ok
}

// FindBranchByName looks a branch up by its name within the named subject.
func (t *Tree) FindBranchByName(name, subject string) (*Branch, bool) {
	b, ok := t.branchName[name]
	if !ok || b.Subject != subject {
		t.logger.Debug("branch not found", zap.String("branch", name), zap.String("subject", subject))
		return nil, false
	}
	return b, true
}

// BranchNamed resolves a prerequisite reference. Branch names are unique
// across the whole tree.
func (t *Tree) BranchNamed(name string) (*Branch, bool) {
	b, ok := t.branchName[name]
	if !ok {
		t.logger.Debug("prerequisite branch not found", zap.String("branch", name))
	}
	return b, ok
}

// FindTopic looks a topic up by ID, returning its parent branch as well.
func (t *Tree) FindTopic(id string) (*Topic, *Branch, bool) {
	ref, ok := t.topics[id]
	if !ok {
		t.logger.Debug("topic not found", zap.String("topic_id", id))
		return nil, nil, false
	}
	return ref.topic, ref.branch, true
}

// ApplyProgress adds xp and secs to the branch's running totals and counts
// one more completed mission. A missing branch is a logged no-op.
func (t *Tree) ApplyProgress(branchName, subjectName string, xp float64, secs int) bool {
	b, ok := t.FindBranchByName(branchName, subjectName)
	if !ok {
		return false
	}
	b.CurrentXP += xp
	b.TotalTimeSpent += secs
	b.MissionsCompleted++
	return true
}

// ResetBranch zeroes the branch's progress counters and re-locks every
// topic. The branch's own unlock state and remaster count are kept.
func (t *Tree) ResetBranch(id string) bool {
	b, ok := t.FindBranch(id)
	if !ok {
		return false
	}
	b.CurrentXP = 0
	b.TotalTimeSpent = 0
	b.MissionsCompleted = 0
	for _, tp := range b.Topics {
		tp.Unlocked = false
	}
	return true
}

// ResetTopic re-locks an unlocked topic and subtracts its requirements from
// the branch totals. The subtraction uses the topic's own cost regardless of
// unlock order, so totals may go negative after forced unlocks.
func (t *Tree) ResetTopic(id string) bool {
	tp, b, ok := t.FindTopic(id)
	if !ok {
		return false
	}
	if !tp.Unlocked {
		t.logger.Debug("topic reset skipped: not unlocked", zap.String("topic_id", id))
		return false
	}
	tp.Unlocked = false
	b.CurrentXP -= tp.XPRequired
	b.MissionsCompleted -= tp.MissionsRequired
	b.TotalTimeSpent -= tp.TimeRequired
	return true
}
