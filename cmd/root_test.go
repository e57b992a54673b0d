package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgsSeparatesOptionsFromTasks(t *testing.T) {
	tasks, options := splitArgs([]string{"build", "mode=release", "test", "out=dist/x=1"})

	assert.Equal(t, []string{"build", "test"}, tasks)
	assert.Equal(t, map[string]string{
		"mode": "release",
		"out":  "dist/x=1",
	}, options)
}

func TestSplitArgsEmpty(t *testing.T) {
	tasks, options := splitArgs(nil)
	assert.Empty(t, tasks)
	assert.Empty(t, options)
}

func TestConsoleWriterAcceptsZerologEvents(t *testing.T) {
	w := NewConsoleWriter()

	_, err := w.Write([]byte(`{"level":"info","task":"build","message":"python setup.py build"}`))
	require.NoError(t, err)

	_, err = w.Write([]byte(`{"level":"error","message":"task build failed"}`))
	require.NoError(t, err)
}

func TestConsoleWriterRejectsGarbage(t *testing.T) {
	w := NewConsoleWriter()
	_, err := w.Write([]byte("not json"))
	require.Error(t, err)
}
