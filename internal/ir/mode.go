package ir

import "sort"

// Mode is one engine execution mode. It fixes the set of memory blocks the
// compiled code may address and, through their readable/writable sets, the
// callbacks the mode supports.
type Mode struct {
	Name   string
	Blocks []*DataBlock
}

// Rom returns the mode's read-only memory block.
func (m *Mode) Rom() *DataBlock {
	for _, b := range m.Blocks {
		if b.Name == "EngineRom" {
			return b
		}
	}
	return nil
}

// Block looks up a block by name.
func (m *Mode) Block(name string) *DataBlock {
	for _, b := range m.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Callbacks returns the sorted union of callback names appearing in any
// block's readable or writable set.
func (m *Mode) Callbacks() []string {
	seen := map[string]bool{}
	for _, b := range m.Blocks {
		for _, cb := range b.Readable {
			seen[cb] = true
		}
		for _, cb := range b.Writable {
			seen[cb] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var playCallbacks = []string{
	"preprocess", "spawnOrder", "shouldSpawn", "initialize",
	"updateSequential", "touch", "updateParallel", "terminate",
}

var playSequentialWriters = []string{"preprocess", "updateSequential", "touch"}

// PlayMode is the standard gameplay mode.
var PlayMode = &Mode{
	Name: "Play",
	Blocks: []*DataBlock{
		{ID: 1000, Name: "RuntimeEnvironment", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 1001, Name: "RuntimeUpdate", Readable: playCallbacks},
		{ID: 1002, Name: "RuntimeTouchArray", Readable: playCallbacks},
		{ID: 1003, Name: "RuntimeSkinTransform", Readable: playCallbacks, Writable: playSequentialWriters},
		{ID: 1004, Name: "RuntimeParticleTransform", Readable: playCallbacks, Writable: playSequentialWriters},
		{ID: 1005, Name: "RuntimeBackground", Readable: playCallbacks, Writable: playSequentialWriters},
		{ID: 1006, Name: "RuntimeUI", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 1007, Name: "RuntimeUIConfiguration", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 2000, Name: "LevelMemory", Readable: playCallbacks, Writable: playSequentialWriters},
		{ID: 2001, Name: "LevelData", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 2002, Name: "LevelOption", Readable: playCallbacks},
		{ID: 2003, Name: "LevelBucket", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 2004, Name: "LevelScore", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 2005, Name: "LevelLife", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 3000, Name: "EngineRom", Readable: playCallbacks},
		{ID: 4000, Name: "EntityMemory", Readable: playCallbacks, Writable: playCallbacks},
		{ID: 4001, Name: "EntityData", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 4002, Name: "EntitySharedMemory", Readable: playCallbacks, Writable: playSequentialWriters},
		{ID: 4003, Name: "EntityInfo", Readable: playCallbacks},
		{ID: 4004, Name: "EntityDespawn", Readable: playCallbacks, Writable: playCallbacks},
		{ID: 4005, Name: "EntityInput", Readable: playCallbacks, Writable: playCallbacks},
		{ID: 5000, Name: "ArchetypeLife", Readable: playCallbacks, Writable: []string{"preprocess"}},
		{ID: 10000, Name: "TemporaryMemory", Readable: playCallbacks, Writable: playCallbacks},
	},
}

var tutorialCallbacks = []string{"preprocess", "navigate", "update"}

// TutorialMode drives the interactive tutorial.
var TutorialMode = &Mode{
	Name: "Tutorial",
	Blocks: []*DataBlock{
		{ID: 1000, Name: "RuntimeEnvironment", Readable: tutorialCallbacks, Writable: []string{"preprocess"}},
		{ID: 1001, Name: "RuntimeUpdate", Readable: tutorialCallbacks},
		{ID: 1002, Name: "RuntimeSkinTransform", Readable: tutorialCallbacks, Writable: tutorialCallbacks},
		{ID: 1003, Name: "RuntimeParticleTransform", Readable: tutorialCallbacks, Writable: tutorialCallbacks},
		{ID: 1004, Name: "RuntimeBackground", Readable: tutorialCallbacks, Writable: tutorialCallbacks},
		{ID: 1005, Name: "RuntimeUI", Readable: tutorialCallbacks, Writable: []string{"preprocess"}},
		{ID: 1006, Name: "RuntimeUIConfiguration", Readable: tutorialCallbacks, Writable: []string{"preprocess"}},
		{ID: 2000, Name: "TutorialMemory", Readable: tutorialCallbacks, Writable: tutorialCallbacks},
		{ID: 2001, Name: "TutorialData", Readable: tutorialCallbacks, Writable: []string{"preprocess"}},
		{ID: 2002, Name: "TutorialInstruction", Readable: tutorialCallbacks, Writable: tutorialCallbacks},
		{ID: 3000, Name: "EngineRom", Readable: tutorialCallbacks},
		{ID: 10000, Name: "TemporaryMemory", Readable: tutorialCallbacks, Writable: tutorialCallbacks},
	},
}

// ModeByName resolves a mode name as it appears in project manifests.
func ModeByName(name string) (*Mode, bool) {
	switch name {
	case "play", "Play":
		return PlayMode, true
	case "tutorial", "Tutorial":
		return TutorialMode, true
	}
	return nil, false
}
