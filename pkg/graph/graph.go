package graph

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Task contains the processed values for a single named unit of work.
//
// Deps lists prerequisite task names in declaration order; that order is the
// tie-breaker for otherwise independent tasks during resolution. Cmds holds
// shell fragments which are executed with `sh -e` semantics by the runner.
//
// SkipIfExists and Inputs/Outputs are guards: they can skip the action while
// still marking the task complete. Disabled is deliberately not a guard; a
// disabled task never runs its action regardless of --force, it only exists to
// satisfy dependents.
type Task struct {
	Name         string
	Desc         string
	Base         string
	Deps         []string
	Cmds         []string
	Env          map[string]string
	SkipIfExists []string
	Inputs       []string
	Outputs      []string
	Disabled     bool
	Hidden       bool
}

func (t *Task) String() string {
	return fmt.Sprintf("<Task %s: %s>", t.Name, t.Desc)
}

// TaskGraph is the immutable set of declared tasks. It preserves declaration
// order for deterministic listings and resolution.
type TaskGraph struct {
	tasks map[string]*Task
	order []string
}

// NewTaskGraph builds a graph from the given tasks. Duplicate names are
// rejected. Dangling prerequisite references are legal at construction time
// and only surface as UnknownTaskError once resolution reaches them, which
// lets partial graphs be merged before use.
func NewTaskGraph(tasks ...*Task) (*TaskGraph, error) {
	g := &TaskGraph{
		tasks: make(map[string]*Task, len(tasks)),
		order: make([]string, 0, len(tasks)),
	}

	for _, task := range tasks {
		if task.Name == "" {
			return nil, eris.New("tasks must have a name")
		}

		if err := g.add(task); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *TaskGraph) add(task *Task) error {
	if _, present := g.tasks[task.Name]; present {
		return eris.Errorf("task %s is declared twice", task.Name)
	}

	g.tasks[task.Name] = task
	g.order = append(g.order, task.Name)
	return nil
}

// Lookup returns the named task.
func (g *TaskGraph) Lookup(name string) (*Task, bool) {
	task, ok := g.tasks[name]
	return task, ok
}

// Names returns all task names in declaration order.
func (g *TaskGraph) Names() []string {
	result := make([]string, len(g.order))
	copy(result, g.order)
	return result
}

// Len returns the number of declared tasks.
func (g *TaskGraph) Len() int {
	return len(g.order)
}

// Merge returns a new graph containing the tasks of g overlaid with the tasks
// of other. Tasks sharing a name are replaced by other's version while keeping
// their original position in the declaration order.
func (g *TaskGraph) Merge(other *TaskGraph) *TaskGraph {
	merged := &TaskGraph{
		tasks: make(map[string]*Task, len(g.tasks)+len(other.tasks)),
		order: make([]string, 0, len(g.order)+len(other.order)),
	}

	for _, name := range g.order {
		merged.tasks[name] = g.tasks[name]
		merged.order = append(merged.order, name)
	}

	for _, name := range other.order {
		if _, present := merged.tasks[name]; !present {
			merged.order = append(merged.order, name)
		}
		merged.tasks[name] = other.tasks[name]
	}

	return merged
}
