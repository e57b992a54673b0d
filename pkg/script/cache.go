package script

import (
	"encoding/gob"
	"os"

	"github.com/buildforge/forge/pkg/graph"
)

// CacheName is the file the configure step writes next to the task script.
const CacheName = ".forge-cache"

// WriteCache stores the evaluated option values and task list so later
// invocations can skip re-running the script.
func WriteCache(file string, options map[string]string, tasks *graph.TaskGraph) error {
	handle, err := os.Create(file)
	if err != nil {
		return err
	}
	defer handle.Close()

	flat := make([]graph.Task, 0, tasks.Len())
	for _, name := range tasks.Names() {
		task, _ := tasks.Lookup(name)
		flat = append(flat, *task)
	}

	encoder := gob.NewEncoder(handle)
	err = encoder.Encode(options)
	if err != nil {
		return err
	}

	return encoder.Encode(flat)
}

// ReadCache restores a cache written by WriteCache.
func ReadCache(file string) (map[string]string, *graph.TaskGraph, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer handle.Close()

	decoder := gob.NewDecoder(handle)

	var options map[string]string
	err = decoder.Decode(&options)
	if err != nil {
		return nil, nil, err
	}

	var flat []graph.Task
	err = decoder.Decode(&flat)
	if err != nil {
		return options, nil, err
	}

	tasks := make([]*graph.Task, len(flat))
	for idx := range flat {
		tasks[idx] = &flat[idx]
	}

	result, err := graph.NewTaskGraph(tasks...)
	if err != nil {
		return options, nil, err
	}

	return options, result, nil
}
