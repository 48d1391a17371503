package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/ir"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validManifest = `
engine: {
	name:    "pulse"
	version: 2
	mode:    "play"
}
callbacks: {
	preprocess: {script: "setup", order: 1}
	updateSequential: {script: "tick", order: 2}
	touch: {script: "on_touch", order: 2}
}
`

func TestLoadValidManifest(t *testing.T) {
	m, err := Load(writeManifest(t, validManifest))
	require.NoError(t, err)

	assert.Equal(t, "pulse", m.Name)
	assert.Equal(t, 2, m.Version)
	assert.Same(t, ir.PlayMode, m.Mode)

	// Order first, then slot name for equal orders.
	require.Len(t, m.Callbacks, 3)
	assert.Equal(t, "preprocess", m.Callbacks[0].Name)
	assert.Equal(t, "touch", m.Callbacks[1].Name)
	assert.Equal(t, "updateSequential", m.Callbacks[2].Name)
	assert.Equal(t, "setup", m.Callbacks[0].Script)
}

func TestLoadManifestFromDirectory(t *testing.T) {
	path := writeManifest(t, validManifest)
	m, err := Load(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, "pulse", m.Name)
}

func TestLoadDefaultsVersion(t *testing.T) {
	m, err := Load(writeManifest(t, `
engine: {name: "pulse", mode: "tutorial"}
callbacks: update: script: "tick"
`))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Version)
	assert.Same(t, ir.TutorialMode, m.Mode)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	_, err := Load(writeManifest(t, `
engine: {name: "pulse", mode: "watch"}
callbacks: preprocess: script: "setup"
`))
	require.Error(t, err)
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Contains(t, lerr.Message, "invalid manifest")
}

func TestLoadRejectsUnknownCallbackSlot(t *testing.T) {
	_, err := Load(writeManifest(t, `
engine: {name: "pulse", mode: "tutorial"}
callbacks: touch: script: "on_touch"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `mode Tutorial has no callback slot "touch"`)
}

func TestLoadRejectsEmptyCallbacks(t *testing.T) {
	_, err := Load(writeManifest(t, `
engine: {name: "pulse", mode: "play"}
callbacks: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no callbacks")
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	_, err := Load(writeManifest(t, `
engine: {name: "pulse"}
callbacks: preprocess: script: "setup"
`))
	require.Error(t, err, "mode is required")

	_, err = Load(writeManifest(t, `
engine: {name: "pulse", mode: "play"}
callbacks: preprocess: {}
`))
	require.Error(t, err, "script is required")
}

func TestLoadRejectsEmptyScriptName(t *testing.T) {
	_, err := Load(writeManifest(t, `
engine: {name: "pulse", mode: "play"}
callbacks: preprocess: script: ""
`))
	require.Error(t, err)
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest not found")
}
