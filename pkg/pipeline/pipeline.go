// Package pipeline declares the built-in task set: the classic build targets
// (all, build, develop, test, package, release, clean, distclean) plus the
// flag-gated bootstrap tasks (virtualenv, dependencies). Projects can override
// any of these from a tasks.star script.
package pipeline

import (
	"strings"

	"github.com/buildforge/forge/pkg/config"
	"github.com/buildforge/forge/pkg/graph"
)

// Tasks builds the built-in task graph for the given configuration.
//
// The DEPS and VIRTUALENV flags disable their tasks outright rather than
// guarding them: a disabled task never runs, not even with --force, but still
// satisfies the build task's prerequisites.
func Tasks(cfg *config.Config) (*graph.TaskGraph, error) {
	distributions := strings.Join(cfg.Distributions, " ")

	return graph.NewTaskGraph(
		&graph.Task{
			Name: "all",
			Desc: "alias for develop",
			Deps: []string{"develop"},
		},
		&graph.Task{
			Name:         "virtualenv",
			Desc:         "bootstrap an isolated environment",
			Disabled:     !cfg.Virtualenv,
			SkipIfExists: []string{".env/bin/activate"},
			Cmds: []string{
				"pip install virtualenv",
				"virtualenv .env",
			},
		},
		&graph.Task{
			Name:     "dependencies",
			Desc:     "install declared dependencies",
			Disabled: !cfg.Deps,
			Deps:     []string{"virtualenv"},
			Cmds: []string{
				"pip install -r requirements.txt",
			},
		},
		&graph.Task{
			Name: "build",
			Desc: "build the project",
			Deps: []string{"virtualenv", "dependencies"},
			Cmds: []string{
				"python setup.py build",
			},
		},
		&graph.Task{
			Name: "test",
			Desc: "run the test suite",
			Env:  map[string]string{"TEST_FLAGS": cfg.TestFlags},
			Cmds: []string{
				"python setup.py test $TEST_FLAGS",
			},
		},
		&graph.Task{
			Name: "package",
			Desc: "produce distribution artifacts",
			Deps: []string{"test"},
			Cmds: []string{
				"python setup.py " + distributions,
			},
		},
		&graph.Task{
			Name: "develop",
			Desc: "install in development mode",
			Deps: []string{"build", "package"},
			Cmds: []string{
				"python setup.py develop",
			},
		},
		&graph.Task{
			Name: "release",
			Desc: "build, package and upload a release",
			Deps: []string{"build", "test", "package"},
			Cmds: []string{
				"twine upload dist/*",
			},
		},
		&graph.Task{
			Name: "clean",
			Desc: "remove build artifacts",
			Cmds: []string{
				"rm -rf build",
				"find . -name '*.pyc' -delete",
			},
		},
		&graph.Task{
			Name: "distclean",
			Desc: "clean and reset version-controlled state",
			Deps: []string{"clean"},
			Cmds: []string{
				"rm -rf .env dist",
				"git reset --hard",
				"git clean -df",
			},
		},
	)
}
