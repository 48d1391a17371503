package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// demoManifest writes a manifest over the built-in demo scripts and
// returns its directory.
func demoManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := `
engine: {
	name: "demo"
	mode: "play"
}
callbacks: {
	shouldSpawn: {script: "always_spawn", order: 1}
	preprocess: {script: "sum_of_squares", order: 2}
	updateSequential: {script: "half_life", order: 3}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.cue"), []byte(manifest), 0o644))
	return dir
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "beatscript.db")
}

func TestBuildPersistsArtifacts(t *testing.T) {
	dir := demoManifest(t)
	db := tempDB(t)

	out, err := runCLI(t, "build", dir, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Built 3 callback(s) for demo (Play)")
	assert.Contains(t, out, "shouldSpawn")
	assert.Contains(t, out, "half_life")
	assert.Contains(t, out, "build id: ")

	out, err = runCLI(t, "builds", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "demo v1 (Play)")
	assert.Contains(t, out, "3 artifact(s)")
}

func TestBuildJSONOutput(t *testing.T) {
	dir := demoManifest(t)
	db := tempDB(t)

	out, err := runCLI(t, "build", dir, "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["build_id"])
	assert.Equal(t, "Play", data["mode"])
	assert.Len(t, data["artifacts"], 3)
}

func TestShowPrintsStoredGraph(t *testing.T) {
	dir := demoManifest(t)
	db := tempDB(t)
	_, err := runCLI(t, "build", dir, "--db", db)
	require.NoError(t, err)

	out, err := runCLI(t, "show", "updateSequential", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "callback updateSequential (script half_life)")
	assert.Contains(t, out, "block 0:")
}

func TestShowUnknownCallbackNotFound(t *testing.T) {
	dir := demoManifest(t)
	db := tempDB(t)
	_, err := runCLI(t, "build", dir, "--db", db)
	require.NoError(t, err)

	out, err := runCLI(t, "show", "terminate", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E006]")
}

func TestShowEmptyStore(t *testing.T) {
	_, err := runCLI(t, "show", "touch", "--db", tempDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBuildsEmptyStore(t *testing.T) {
	out, err := runCLI(t, "builds", "--db", tempDB(t))
	require.NoError(t, err)
	assert.Contains(t, out, "no builds")
}

func TestDumpRenderings(t *testing.T) {
	dir := demoManifest(t)

	out, err := runCLI(t, "dump", dir, "updateSequential")
	require.NoError(t, err)
	assert.Contains(t, out, "block 0:")
	assert.Contains(t, out, "-> exit")

	out, err = runCLI(t, "dump", dir, "updateSequential", "--render", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph")
	assert.Contains(t, out, "-->")

	out, err = runCLI(t, "dump", dir, "updateSequential", "--render", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "id: 0")
}

func TestDumpInvalidRendering(t *testing.T) {
	dir := demoManifest(t)

	out, err := runCLI(t, "dump", dir, "updateSequential", "--render", "dot")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `invalid rendering "dot"`)
}

func TestDumpUnknownCallback(t *testing.T) {
	dir := demoManifest(t)

	_, err := runCLI(t, "dump", dir, "terminate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `no callback "terminate"`)
}

func TestRunExecutesCallback(t *testing.T) {
	dir := demoManifest(t)

	// half_life halves 256 until it reaches 1, in eight steps.
	out, err := runCLI(t, "run", dir, "updateSequential")
	require.NoError(t, err)
	assert.Contains(t, out, "updateSequential exited with 8")

	// sum_of_squares folds to a constant exit.
	out, err = runCLI(t, "run", dir, "preprocess")
	require.NoError(t, err)
	assert.Contains(t, out, "preprocess exited with 30")
}

func TestRunJSONOutput(t *testing.T) {
	dir := demoManifest(t)

	out, err := runCLI(t, "run", dir, "shouldSpawn", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, 1.0, data["result"])
}

func TestRunQuotaExceeded(t *testing.T) {
	dir := demoManifest(t)

	_, err := runCLI(t, "run", dir, "updateSequential", "--quota", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestUnregisteredScript(t *testing.T) {
	dir := t.TempDir()
	manifest := `
engine: {name: "demo", mode: "play"}
callbacks: touch: script: "missing_script"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.cue"), []byte(manifest), 0o644))

	out, err := runCLI(t, "build", dir, "--db", tempDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
	assert.Contains(t, out, "always_spawn")
}

func TestBadManifestPath(t *testing.T) {
	out, err := runCLI(t, "build", filepath.Join(t.TempDir(), "absent"), "--db", tempDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestInvalidFormatFlag(t *testing.T) {
	_, err := runCLI(t, "builds", "--db", tempDB(t), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestJSONErrorEnvelope(t *testing.T) {
	out, err := runCLI(t, "show", "touch", "--db", tempDB(t), "--format", "json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E006", resp.Error.Code)
}
