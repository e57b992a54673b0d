package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildforge/forge/pkg/graph"
)

func TestCacheRoundTrip(t *testing.T) {
	tasks, err := graph.NewTaskGraph(
		&graph.Task{
			Name:         "virtualenv",
			Desc:         "bootstrap",
			SkipIfExists: []string{".env/bin/activate"},
			Cmds:         []string{"virtualenv .env"},
			Env:          map[string]string{"PY": "python3"},
		},
		&graph.Task{Name: "build", Deps: []string{"virtualenv"}, Cmds: []string{"python setup.py build"}},
	)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), CacheName)
	options := map[string]string{"mode": "release"}
	require.NoError(t, WriteCache(file, options, tasks))

	restoredOptions, restored, err := ReadCache(file)
	require.NoError(t, err)
	assert.Equal(t, options, restoredOptions)
	assert.Equal(t, tasks.Names(), restored.Names())

	venv, ok := restored.Lookup("virtualenv")
	require.True(t, ok)
	assert.Equal(t, "bootstrap", venv.Desc)
	assert.Equal(t, []string{".env/bin/activate"}, venv.SkipIfExists)
	assert.Equal(t, map[string]string{"PY": "python3"}, venv.Env)

	build, ok := restored.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, []string{"virtualenv"}, build.Deps)
}

func TestReadCacheMissingFile(t *testing.T) {
	_, _, err := ReadCache(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
