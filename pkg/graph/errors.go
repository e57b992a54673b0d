package graph

import (
	"fmt"
	"strings"
)

// UnknownTaskError indicates that a task name was requested or referenced as a
// prerequisite but never declared.
type UnknownTaskError struct {
	Name string
	// ReferencedBy names the dependent task if the reference came from a
	// prerequisite list; it is empty when the missing task was requested
	// directly.
	ReferencedBy string
}

func (e *UnknownTaskError) Error() string {
	if e.ReferencedBy != "" {
		return fmt.Sprintf("task %s not found (prerequisite of %s)", e.Name, e.ReferencedBy)
	}
	return fmt.Sprintf("task %s not found", e.Name)
}

// CyclicDependencyError indicates that the prerequisite relation contains a
// cycle. Cycle holds the full path with the repeated task at both ends,
// e.g. [X Y X].
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}
