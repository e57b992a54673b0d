package runner

import (
	"fmt"

	"mvdan.cc/sh/v3/interp"
)

// ActionFailedError reports that a task's action returned a failure. The run
// halts immediately; nothing ordered after the task executes and nothing that
// already ran is rolled back.
type ActionFailedError struct {
	Task     string
	ExitCode int
	Err      error
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.Task, e.Err)
}

func (e *ActionFailedError) Unwrap() error {
	return e.Err
}

func exitCode(err error) int {
	if status, ok := interp.IsExitStatus(err); ok {
		return int(status)
	}
	return 1
}
