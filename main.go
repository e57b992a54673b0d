package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/buildforge/forge/cmd"
	"github.com/buildforge/forge/pkg/runner"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var failed *runner.ActionFailedError
	if errors.As(err, &failed) && failed.ExitCode != 0 {
		os.Exit(failed.ExitCode)
	}
	os.Exit(1)
}
