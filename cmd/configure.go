package cmd

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/buildforge/forge/pkg/config"
	"github.com/buildforge/forge/pkg/runner"
	"github.com/buildforge/forge/pkg/script"
)

var configureCmd = &cobra.Command{
	Use:   "configure [KEY=value ...]",
	Short: "Evaluate the task script once and cache the result",
	Long: `Evaluates the project's tasks.star with the given option values and writes
the parsed task list to a cache file. Later invocations reuse the cache instead
of re-running the script.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, options := splitArgs(args)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		ctx := runner.WithLogger(context.Background(), &logger)

		scriptPath, err := findTaskScript()
		if err != nil {
			return err
		}
		if scriptPath == "" {
			return eris.New("no tasks.star file found")
		}

		projectRoot := filepath.Dir(scriptPath)
		tasks, _, err := script.Load(ctx, scriptPath, projectRoot, options, true)
		if err != nil {
			return eris.Wrapf(err, "failed to parse %s", scriptPath)
		}

		cacheFile := filepath.Join(projectRoot, script.CacheName)
		if err := script.WriteCache(cacheFile, options, tasks); err != nil {
			return eris.Wrapf(err, "failed to write %s", cacheFile)
		}

		logger.Info().Msgf("cached %d tasks in %s", tasks.Len(), cacheFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
