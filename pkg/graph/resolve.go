package graph

// Resolve computes the execution order for the named task: a topological
// ordering of the task and all of its transitive prerequisites in which every
// prerequisite precedes its dependents. Independent tasks keep their
// prerequisite declaration order, so the result is fully deterministic.
//
// Resolution never executes anything. It fails with *UnknownTaskError if any
// referenced name is missing from the graph and with *CyclicDependencyError if
// the prerequisite relation loops back on itself.
func Resolve(g *TaskGraph, name string) ([]*Task, error) {
	r := resolver{
		graph:   g,
		visited: make(map[string]bool),
	}

	if err := r.visit(name, ""); err != nil {
		return nil, err
	}

	return r.order, nil
}

type resolver struct {
	graph *TaskGraph
	// visited marks tasks whose whole subtree is already in order.
	visited map[string]bool
	// onPath marks tasks on the current traversal path; meeting one again
	// means the graph is cyclic.
	onPath []string
	order  []*Task
}

func (r *resolver) visit(name, dependent string) error {
	if r.visited[name] {
		return nil
	}

	for idx, pathName := range r.onPath {
		if pathName == name {
			cycle := append([]string{}, r.onPath[idx:]...)
			cycle = append(cycle, name)
			return &CyclicDependencyError{Cycle: cycle}
		}
	}

	task, ok := r.graph.Lookup(name)
	if !ok {
		return &UnknownTaskError{Name: name, ReferencedBy: dependent}
	}

	r.onPath = append(r.onPath, name)
	for _, dep := range task.Deps {
		if err := r.visit(dep, name); err != nil {
			return err
		}
	}
	r.onPath = r.onPath[:len(r.onPath)-1]

	r.visited[name] = true
	r.order = append(r.order, task)
	return nil
}
