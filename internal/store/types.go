package store

import (
	"time"

	"github.com/google/uuid"
)

// Build is one `build` invocation over a project manifest.
type Build struct {
	ID            string
	Engine        string
	EngineVersion int
	Mode          string
	CreatedAt     time.Time
}

// NewBuild allocates a build record with a fresh UUID, stamped now.
func NewBuild(engine string, version int, mode string) Build {
	return Build{
		ID:            uuid.NewString(),
		Engine:        engine,
		EngineVersion: version,
		Mode:          mode,
		CreatedAt:     time.Now().UTC(),
	}
}

// Artifact is one compiled callback within a build.
type Artifact struct {
	BuildID    string
	Callback   string
	Script     string
	Hash       string
	CFGText    string
	Rom        []float64
	BlockCount int
}
