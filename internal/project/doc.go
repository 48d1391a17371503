// Package project loads engine project manifests.
//
// A manifest is a CUE file (or directory of CUE files) declaring the engine
// name and version, the target mode, and the callbacks to compile. Script
// bodies are not part of the manifest; callbacks reference scripts by name,
// resolved against a Registry at build time.
package project
