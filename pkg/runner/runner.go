// Package runner executes a resolved task sequence one task at a time.
// Actions are shell fragments interpreted with mvdan.cc/sh, so task scripts
// behave the same on every platform. Guard predicates (skip_if_exists,
// input/output freshness) are evaluated here rather than inside the actions.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/buildforge/forge/pkg/graph"
)

// Options adjust a single run. The zero value executes normally.
type Options struct {
	// DryRun logs the commands that would run without executing them. The
	// resolved order is still walked and recorded.
	DryRun bool
	// Force ignores guard predicates so every enabled task executes. It does
	// not override a disabled task.
	Force bool
	// ProjectRoot anchors `//`-prefixed paths; defaults to the working
	// directory.
	ProjectRoot string
	// Stdout and Stderr receive action output; both default to the process
	// streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the named task and its transitive prerequisites in resolved
// order. Resolution happens up front, so UnknownTaskError and
// CyclicDependencyError surface before any action executes. The returned
// ExecutionRun records what happened even when the run fails partway.
func Run(ctx context.Context, tasks *graph.TaskGraph, name string, opts Options) (*ExecutionRun, error) {
	run := newExecutionRun()

	order, err := graph.Resolve(tasks, name)
	if err != nil {
		return run, err
	}

	if opts.ProjectRoot == "" {
		opts.ProjectRoot = "."
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	for _, task := range order {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		if run.Completed(task.Name) {
			log(ctx).Debug().Msgf("Task %s already run", task.Name)
			continue
		}

		run.mark(task.Name, StateResolved)

		if task.Disabled {
			log(ctx).Info().
				Str("task", task.Name).
				Msg("disabled, nothing to do")
			run.finish(task.Name, StateSkipped)
			continue
		}

		if !opts.Force {
			skip, reason, err := evalGuards(ctx, task, opts.ProjectRoot)
			if err != nil {
				run.finish(task.Name, StateFailed)
				return run, eris.Wrapf(err, "failed to evaluate guards for task %s", task.Name)
			}

			if skip {
				log(ctx).Info().
					Str("task", task.Name).
					Msgf("skipped because %s", reason)
				run.finish(task.Name, StateSkipped)
				continue
			}
		}

		run.mark(task.Name, StateExecuting)
		if err := execute(ctx, task, opts); err != nil {
			run.finish(task.Name, StateFailed)
			return run, &ActionFailedError{
				Task:     task.Name,
				ExitCode: exitCode(err),
				Err:      err,
			}
		}
		run.finish(task.Name, StateSucceeded)
	}

	return run, nil
}

func taskEnv(task *graph.Task) expand.Environ {
	envVars := os.Environ()

	for name, value := range task.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", name, value))
	}

	return expand.ListEnviron(envVars...)
}

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

func execute(ctx context.Context, task *graph.Task, opts Options) error {
	base := task.Base
	if base == "" {
		base = "."
	}

	shell, err := interp.New(
		interp.Dir(base),
		interp.Env(taskEnv(task)),
		interp.OpenHandler(openHandler),
		interp.StdIO(nil, opts.Stdout, opts.Stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "failed to initialize shell")
	}

	parser := syntax.NewParser()
	printer := syntax.NewPrinter(
		syntax.Minify(true),
	)
	strBuffer := strings.Builder{}

	for idx, fragment := range task.Cmds {
		result, err := parser.Parse(strings.NewReader(fragment), fmt.Sprintf("%s:%d", task.Name, idx))
		if err != nil {
			return eris.Wrapf(err, "failed to parse command %s", fragment)
		}

		for _, stmt := range result.Stmts {
			strBuffer.Reset()
			printer.Print(&strBuffer, stmt)
			log(ctx).Info().
				Str("task", task.Name).
				Bool("command", true).
				Msg(strBuffer.String())

			if opts.DryRun {
				continue
			}

			if err := shell.Run(ctx, stmt); err != nil {
				return err
			}

			if shell.Exited() {
				return nil
			}
		}

		if err = ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
