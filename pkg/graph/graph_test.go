package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskGraphRejectsDuplicates(t *testing.T) {
	_, err := NewTaskGraph(
		&Task{Name: "build"},
		&Task{Name: "build"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")
}

func TestNewTaskGraphRejectsUnnamedTasks(t *testing.T) {
	_, err := NewTaskGraph(&Task{Desc: "nameless"})
	require.Error(t, err)
}

func TestNamesKeepDeclarationOrder(t *testing.T) {
	g, err := NewTaskGraph(
		&Task{Name: "clean"},
		&Task{Name: "build"},
		&Task{Name: "test"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "build", "test"}, g.Names())
}

func TestMergeOverridesByName(t *testing.T) {
	base, err := NewTaskGraph(
		&Task{Name: "build", Desc: "builtin"},
		&Task{Name: "test", Desc: "builtin"},
	)
	require.NoError(t, err)

	custom, err := NewTaskGraph(
		&Task{Name: "test", Desc: "custom"},
		&Task{Name: "docs", Desc: "custom"},
	)
	require.NoError(t, err)

	merged := base.Merge(custom)
	assert.Equal(t, []string{"build", "test", "docs"}, merged.Names())

	overridden, ok := merged.Lookup("test")
	require.True(t, ok)
	assert.Equal(t, "custom", overridden.Desc)

	kept, ok := merged.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, "builtin", kept.Desc)
}
