package knowledge

import (
	"fmt"
	"strings"
)

// validateSubjects performs all structural checks on a catalog.
// Returns a combined error describing all problems found, or nil if valid.
func validateSubjects(subjects []*Subject) error {
	var errs []string

	subjectNames := make(map[string]bool, len(subjects))
	branchIDs := make(map[string]bool)
	branchNames := make(map[string]bool)
	topicIDs := make(map[string]bool)
	var branches []*Branch

	for _, s := range subjects {
		if subjectNames[s.Name] {
			errs = append(errs, fmt.Sprintf("duplicate subject name: %q", s.Name))
		}
		subjectNames[s.Name] = true

		for _, b := range s.Branches {
			branches = append(branches, b)
			if branchIDs[b.ID] {
				errs = append(errs, fmt.Sprintf("duplicate branch ID: %q", b.ID))
			}
			branchIDs[b.ID] = true
			if branchNames[b.Name] {
				errs = append(errs, fmt.Sprintf("duplicate branch name: %q", b.Name))
			}
			branchNames[b.Name] = true

			if b.Subject != s.Name {
				errs = append(errs, fmt.Sprintf("branch %q has subject %q, but is listed under %q", b.ID, b.Subject, s.Name))
			}
			if b.PrerequisiteCompletion < 0 || b.PrerequisiteCompletion > 1 {
				errs = append(errs, fmt.Sprintf("branch %q: PrerequisiteCompletion must be in [0, 1], got %f", b.ID, b.PrerequisiteCompletion))
			}
			if len(b.Topics) == 0 {
				errs = append(errs, fmt.Sprintf("branch %q has no topics", b.ID))
			}

			for _, tp := range b.Topics {
				if topicIDs[tp.ID] {
					errs = append(errs, fmt.Sprintf("duplicate topic ID: %q", tp.ID))
				}
				topicIDs[tp.ID] = true
				if tp.XPRequired < 0 || tp.MissionsRequired < 0 || tp.TimeRequired < 0 {
					errs = append(errs, fmt.Sprintf("topic %q has a negative requirement", tp.ID))
				}
			}
		}
	}

	// Check for dangling prerequisites
	for _, b := range branches {
		for _, name := range b.Prerequisites {
			if !branchNames[name] {
				errs = append(errs, fmt.Sprintf("branch %q references nonexistent prerequisite %q", b.ID, name))
			}
		}
	}

	if cyc := prerequisiteCycle(branches); len(cyc) > 0 {
		errs = append(errs, fmt.Sprintf("cycle detected involving branches: %s", strings.Join(cyc, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("knowledge tree validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// prerequisiteCycle runs Kahn's algorithm over prerequisite names and returns
// the branches left with unresolved in-degree.
func prerequisiteCycle(branches []*Branch) []string {
	inDegree := make(map[string]int, len(branches))
	dependents := make(map[string][]string)
	for _, b := range branches {
		inDegree[b.Name] = len(b.Prerequisites)
		for _, p := range b.Prerequisites {
			dependents[p] = append(dependents[p], b.Name)
		}
	}

	var queue []string
	for _, b := range branches {
		if inDegree[b.Name] == 0 {
			queue = append(queue, b.Name)
		}
	}

	visited := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if visited == len(branches) {
		return nil
	}
	var cycle []string
	for _, b := range branches {
		if inDegree[b.Name] > 0 {
			cycle = append(cycle, b.Name)
		}
	}
	return cycle
}
