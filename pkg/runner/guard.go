package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"

	"github.com/buildforge/forge/pkg/graph"
)

func shellReadDir(path string) ([]os.FileInfo, error) {
	if path == "" {
		path = "."
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

func normalizePath(projectRoot, base, path string) string {
	if strings.HasPrefix(path, "//") {
		return filepath.Clean(filepath.Join(projectRoot, path[2:]))
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

// resolvePatterns expands the glob patterns relative to base. Patterns that
// match nothing are dropped from the result.
func resolvePatterns(projectRoot, base string, patterns []string) ([]string, error) {
	result := []string{}
	cfg := expand.Config{
		ReadDir:  shellReadDir,
		GlobStar: true,
	}

	parser := syntax.NewParser()
	for _, item := range patterns {
		item = normalizePath(projectRoot, base, item)
		item = filepath.ToSlash(item)

		words := make([]*syntax.Word, 0)
		parser.Words(strings.NewReader(item), func(w *syntax.Word) bool {
			words = append(words, w)
			return true
		})

		matches, err := expand.Fields(&cfg, words...)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to resolve pattern %s", item)
		}

		for _, match := range matches {
			// An unmatched pattern is returned verbatim; skip those.
			if !strings.Contains(match, "*") {
				result = append(result, match)
			}
		}
	}
	return result, nil
}

// evalGuards checks the task's guard predicates and reports whether the action
// can be skipped, together with a reason for the log.
func evalGuards(ctx context.Context, task *graph.Task, projectRoot string) (bool, string, error) {
	base := task.Base
	if base == "" {
		base = "."
	}

	if len(task.SkipIfExists) > 0 {
		skipList, err := resolvePatterns(projectRoot, base, task.SkipIfExists)
		if err != nil {
			return false, "", eris.Wrap(err, "failed to resolve skip_if_exists list")
		}

		found := 0
		for _, item := range skipList {
			_, err := os.Stat(item)
			if err == nil {
				found++
			} else if !eris.Is(err, os.ErrNotExist) {
				return false, "", eris.Wrapf(err, "failed to check %s", item)
			}
		}

		if found > 0 && found == len(skipList) {
			return true, "all skip files exist", nil
		}
	}

	if len(task.Inputs) == 0 {
		return false, "", nil
	}

	inputList, err := resolvePatterns(projectRoot, base, task.Inputs)
	if err != nil {
		return false, "", eris.Wrap(err, "failed to resolve inputs")
	}

	outputList, err := resolvePatterns(projectRoot, base, task.Outputs)
	if err != nil {
		return false, "", eris.Wrap(err, "failed to resolve output list")
	}

	var newestInput time.Time
	for _, item := range inputList {
		info, err := os.Stat(item)
		if err != nil {
			return false, "", eris.Wrapf(err, "failed to check input %s", item)
		}

		if info.ModTime().Sub(newestInput) > 0 {
			newestInput = info.ModTime()
		}
	}

	if newestInput.IsZero() {
		return false, "", nil
	}

	var newestOutput time.Time
	oldestOutput := time.Now()
	for _, item := range outputList {
		info, err := os.Stat(item)
		if err != nil && !eris.Is(err, os.ErrNotExist) {
			return false, "", eris.Wrapf(err, "failed to check output %s", item)
		}

		if err == nil {
			mt := info.ModTime()
			if mt.Sub(newestOutput) > 0 {
				newestOutput = mt
			}
			if oldestOutput.Sub(mt) > 0 {
				oldestOutput = mt
			}
		}
	}

	if newestOutput.Sub(oldestOutput) > 10*time.Minute {
		log(ctx).Warn().
			Str("task", task.Name).
			Msgf("oldest output is %f minutes older than the newest output", newestOutput.Sub(oldestOutput).Minutes())
	}

	if newestOutput.Sub(newestInput) > 0 {
		return true, "outputs are newer than all inputs", nil
	}

	return false, "", nil
}
