// Package cmd implements the forge CLI: it assembles the built-in pipeline,
// overlays the first tasks.star found above the working directory and hands
// the requested targets to the runner.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/buildforge/forge/pkg/config"
	"github.com/buildforge/forge/pkg/graph"
	"github.com/buildforge/forge/pkg/pipeline"
	"github.com/buildforge/forge/pkg/runner"
	"github.com/buildforge/forge/pkg/script"
)

var rootCmd = &cobra.Command{
	Use:   "forge [flags] [KEY=value ...] [task ...]",
	Short: "Minimal dependency-ordered build orchestrator",
	Long: `forge executes named build tasks after their prerequisites, at most once per
invocation. The classic targets (all, build, develop, test, package, release,
clean, distclean) are built in; a tasks.star file extends or overrides them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskArgs, options := splitArgs(args)

		dryRun, err := cmd.Flags().GetBool("dry")
		if err != nil {
			return err
		}

		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		ctx := runner.WithLogger(context.Background(), &logger)

		tasks, projectRoot, err := assembleTasks(ctx, cfg, options)
		if err != nil {
			return err
		}

		if len(taskArgs) == 0 {
			listTasks(tasks)
			return nil
		}

		for _, name := range taskArgs {
			_, err := runner.Run(ctx, tasks, name, runner.Options{
				DryRun:      dryRun,
				Force:       force,
				ProjectRoot: projectRoot,
			})
			if err != nil {
				logger.Error().Err(err).Msgf("Failed task %s", name)
				return err
			}
		}

		return nil
	},
}

func init() {
	rootCmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	rootCmd.Flags().BoolP("force", "f", false, "force build; always execute the passed tasks even if they don't have to run")
}

// Execute runs the CLI and returns the resulting error, if any.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Log.JSON {
		return zerolog.New(os.Stderr).Level(cfg.LogLevel()).With().Timestamp().Logger()
	}
	return zerolog.New(NewConsoleWriter()).Level(cfg.LogLevel())
}

func splitArgs(args []string) (taskArgs []string, options map[string]string) {
	options = make(map[string]string)
	for _, part := range args {
		pos := strings.Index(part, "=")
		if pos > -1 {
			options[part[:pos]] = part[pos+1:]
		} else {
			taskArgs = append(taskArgs, part)
		}
	}
	return taskArgs, options
}

// findTaskScript walks up from the working directory until it finds a
// tasks.star file. An empty result means the built-in pipeline runs alone.
func findTaskScript() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", eris.Wrap(err, "failed to retrieve the current working directory")
	}

	path := wd
	for {
		taskPath := filepath.Join(path, "tasks.star")
		_, err := os.Stat(taskPath)
		if err == nil {
			return taskPath, nil
		}
		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "failed to check %s", taskPath)
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", nil
		}

		path = parent
	}
}

// assembleTasks merges the built-in pipeline with the project's task script.
// When the configure cache exists and no options were passed on the command
// line, the cached result is used instead of re-evaluating the script.
func assembleTasks(ctx context.Context, cfg *config.Config, options map[string]string) (*graph.TaskGraph, string, error) {
	builtin, err := pipeline.Tasks(cfg)
	if err != nil {
		return nil, "", err
	}

	scriptPath, err := findTaskScript()
	if err != nil {
		return nil, "", err
	}

	if scriptPath == "" {
		return builtin, ".", nil
	}

	projectRoot := filepath.Dir(scriptPath)
	cacheFile := filepath.Join(projectRoot, script.CacheName)

	if len(options) == 0 {
		_, cached, err := script.ReadCache(cacheFile)
		if err == nil {
			return builtin.Merge(cached), projectRoot, nil
		}
		if !eris.Is(err, os.ErrNotExist) {
			runner.Logger(ctx).Warn().Err(err).Msgf("ignoring unreadable cache %s", cacheFile)
		}
	}

	scriptTasks, _, err := script.Load(ctx, scriptPath, projectRoot, options, true)
	if err != nil {
		return nil, "", eris.Wrapf(err, "failed to parse %s", scriptPath)
	}

	return builtin.Merge(scriptTasks), projectRoot, nil
}

func listTasks(tasks *graph.TaskGraph) {
	fmt.Println("Available tasks:")

	maxNameLen := 0
	sortedNames := make([]string, 0, tasks.Len())
	for _, name := range tasks.Names() {
		task, _ := tasks.Lookup(name)
		if task.Hidden {
			continue
		}

		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
		sortedNames = append(sortedNames, name)
	}

	sort.Strings(sortedNames)

	lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
	for _, name := range sortedNames {
		task, _ := tasks.Lookup(name)
		fmt.Printf(lineFmt, name+":", task.Desc)
	}
}
