package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildforge/forge/pkg/runner"
)

func testCtx() context.Context {
	logger := zerolog.Nop()
	return runner.WithLogger(context.Background(), &logger)
}

func writeScript(t *testing.T, content string) (string, string) {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "tasks.star")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, root
}

func TestLoadCollectsTasksAndOptions(t *testing.T) {
	path, root := writeScript(t, `
mode = option("mode", default="debug", help="build mode")

def configure():
    generate = task(
        "generate",
        desc="generate sources",
        cmds=[("echo", "generated")],
    )
    task(
        "build",
        desc="compile in " + mode + " mode",
        deps=[generate],
        cmds=["echo building"],
    )
`)

	tasks, options, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	require.Contains(t, options, "mode")
	assert.Equal(t, "debug", options["mode"].Default())
	assert.Equal(t, "build mode", options["mode"].Help)

	build, ok := tasks.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, "compile in debug mode", build.Desc)
	assert.Equal(t, []string{"generate"}, build.Deps)
	assert.Equal(t, []string{"echo building"}, build.Cmds)

	generate, ok := tasks.Lookup("generate")
	require.True(t, ok)
	assert.Equal(t, []string{"echo generated"}, generate.Cmds)
}

func TestLoadOptionValuesOverrideDefaults(t *testing.T) {
	path, root := writeScript(t, `
mode = option("mode", default="debug")

def configure():
    task("build", desc=mode, cmds=["echo hi"])
`)

	tasks, _, err := Load(testCtx(), path, root, map[string]string{"mode": "release"}, true)
	require.NoError(t, err)

	build, ok := tasks.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, "release", build.Desc)
}

func TestLoadWithoutConfigureCall(t *testing.T) {
	path, root := writeScript(t, `
option("mode", default="debug")
`)

	tasks, options, err := Load(testCtx(), path, root, nil, false)
	require.NoError(t, err)
	assert.Nil(t, tasks)
	assert.Contains(t, options, "mode")
}

func TestLoadRequiresConfigureFunction(t *testing.T) {
	path, root := writeScript(t, `x = 1`)

	_, _, err := Load(testCtx(), path, root, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure")
}

func TestLoadRejectsReservedTaskName(t *testing.T) {
	path, root := writeScript(t, `
def configure():
    task("configure", cmds=["echo no"])
`)

	_, _, err := Load(testCtx(), path, root, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestLoadDisabledTask(t *testing.T) {
	path, root := writeScript(t, `
def configure():
    task("upload", cmds=["echo up"], enabled=False)
`)

	tasks, _, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	upload, ok := tasks.Lookup("upload")
	require.True(t, ok)
	assert.True(t, upload.Disabled)
}

func TestLoadAnonymousTasksAreHidden(t *testing.T) {
	path, root := writeScript(t, `
def configure():
    helper = task(cmds=["echo helper"])
    task("main", deps=[helper], cmds=["echo main"])
`)

	tasks, _, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	main, ok := tasks.Lookup("main")
	require.True(t, ok)
	require.Len(t, main.Deps, 1)

	helper, ok := tasks.Lookup(main.Deps[0])
	require.True(t, ok)
	assert.True(t, helper.Hidden)
}

func TestLoadEnvOverridesReachTasks(t *testing.T) {
	path, root := writeScript(t, `
setenv("BUILD_MODE", "release")

def configure():
    task("build", cmds=["echo hi"])
    task("test", cmds=["echo hi"], env={"BUILD_MODE": "debug"})
`)

	tasks, _, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	build, ok := tasks.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, "release", build.Env["BUILD_MODE"])

	test, ok := tasks.Lookup("test")
	require.True(t, ok)
	assert.Equal(t, "debug", test.Env["BUILD_MODE"])
}

func TestSemverBuiltin(t *testing.T) {
	path, root := writeScript(t, `
major, minor, patch = semver("2.7.1")

def configure():
    task("release", desc="v%d.%d.%d" % (major, minor, patch), cmds=["echo release"])
`)

	tasks, _, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	release, ok := tasks.Lookup("release")
	require.True(t, ok)
	assert.Equal(t, "v2.7.1", release.Desc)
}

func TestSemverBuiltinRejectsGarbage(t *testing.T) {
	path, root := writeScript(t, `
semver("not-a-version")

def configure():
    pass
`)

	_, _, err := Load(testCtx(), path, root, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version")
}

func TestReadYamlBuiltin(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "project.yml"), []byte("name: forge\nversion: 3\n"), 0o644))

	path := filepath.Join(root, "tasks.star")
	require.NoError(t, os.WriteFile(path, []byte(`
name = read_yaml("project.yml", "name")
missing = read_yaml("project.yml", "nope", "fallback")

def configure():
    task("build", desc=name + "/" + missing, cmds=["echo hi"])
`), 0o644))

	tasks, _, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	build, ok := tasks.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, "forge/fallback", build.Desc)
}

func TestExecuteBuiltinCapturesOutput(t *testing.T) {
	path, root := writeScript(t, `
greeting = execute("echo hello").strip()

def configure():
    task("build", desc=greeting, cmds=["echo hi"])
`)

	tasks, _, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	build, ok := tasks.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, "hello", build.Desc)
}

func TestIsfileAndIsdirBuiltins(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "present"), []byte("x"), 0o644))

	path := filepath.Join(root, "tasks.star")
	require.NoError(t, os.WriteFile(path, []byte(`
have_file = isfile("present")
have_dir = isdir(".")
have_ghost = isfile("ghost")

def configure():
    task("build", desc="%s %s %s" % (have_file, have_dir, have_ghost), cmds=["echo hi"])
`), 0o644))

	tasks, _, err := Load(testCtx(), path, root, nil, true)
	require.NoError(t, err)

	build, ok := tasks.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, "True True False", build.Desc)
}
