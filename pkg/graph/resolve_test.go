package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGraph(t *testing.T, tasks ...*Task) *TaskGraph {
	t.Helper()
	g, err := NewTaskGraph(tasks...)
	require.NoError(t, err)
	return g
}

func names(order []*Task) []string {
	result := make([]string, len(order))
	for idx, task := range order {
		result[idx] = task.Name
	}
	return result
}

func TestResolveSingleTask(t *testing.T) {
	g := mustGraph(t, &Task{Name: "clean"})
	order, err := Resolve(g, "clean")
	require.NoError(t, err)
	assert.Equal(t, []string{"clean"}, names(order))
}

func TestResolvePrerequisitesPrecedeDependents(t *testing.T) {
	g := mustGraph(t,
		&Task{Name: "virtualenv"},
		&Task{Name: "dependencies"},
		&Task{Name: "build", Deps: []string{"virtualenv", "dependencies"}},
		&Task{Name: "test"},
		&Task{Name: "package", Deps: []string{"test"}},
		&Task{Name: "develop", Deps: []string{"build", "package"}},
	)

	order, err := Resolve(g, "develop")
	require.NoError(t, err)

	index := make(map[string]int, len(order))
	for idx, task := range order {
		index[task.Name] = idx
	}

	for _, task := range order {
		for _, dep := range task.Deps {
			assert.Less(t, index[dep], index[task.Name],
				"%s must precede %s", dep, task.Name)
		}
	}
	assert.Equal(t, "develop", order[len(order)-1].Name)
}

func TestResolveTieBreakIsDeclarationOrder(t *testing.T) {
	g := mustGraph(t,
		&Task{Name: "a"},
		&Task{Name: "b"},
		&Task{Name: "c"},
		&Task{Name: "top", Deps: []string{"b", "a", "c"}},
	)

	order, err := Resolve(g, "top")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "top"}, names(order))
}

func TestResolveDiamondListsSharedPrerequisiteOnce(t *testing.T) {
	g := mustGraph(t,
		&Task{Name: "A"},
		&Task{Name: "B", Deps: []string{"A"}},
		&Task{Name: "C", Deps: []string{"A"}},
		&Task{Name: "D", Deps: []string{"B", "C"}},
	)

	order, err := Resolve(g, "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(order))
}

func TestResolveUnknownRequestedTask(t *testing.T) {
	g := mustGraph(t, &Task{Name: "build"})

	_, err := Resolve(g, "deploy")
	require.Error(t, err)

	var unknown *UnknownTaskError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "deploy", unknown.Name)
	assert.Empty(t, unknown.ReferencedBy)
}

func TestResolveUnknownPrerequisite(t *testing.T) {
	g := mustGraph(t, &Task{Name: "build", Deps: []string{"missing"}})

	_, err := Resolve(g, "build")
	var unknown *UnknownTaskError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, "build", unknown.ReferencedBy)
}

func TestResolveReportsTwoTaskCycle(t *testing.T) {
	g := mustGraph(t,
		&Task{Name: "X", Deps: []string{"Y"}},
		&Task{Name: "Y", Deps: []string{"X"}},
	)

	_, err := Resolve(g, "X")
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"X", "Y", "X"}, cyclic.Cycle)
	assert.Equal(t, "cyclic dependency: X -> Y -> X", cyclic.Error())
}

func TestResolveReportsSelfLoop(t *testing.T) {
	g := mustGraph(t, &Task{Name: "ouroboros", Deps: []string{"ouroboros"}})

	_, err := Resolve(g, "ouroboros")
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"ouroboros", "ouroboros"}, cyclic.Cycle)
}

func TestResolveReportsDeepCyclePath(t *testing.T) {
	g := mustGraph(t,
		&Task{Name: "release", Deps: []string{"package"}},
		&Task{Name: "package", Deps: []string{"test"}},
		&Task{Name: "test", Deps: []string{"release"}},
	)

	_, err := Resolve(g, "release")
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"release", "package", "test", "release"}, cyclic.Cycle)
}
