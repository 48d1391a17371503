// Package store persists compiled build artifacts.
//
// Each `build` run creates one build row (UUID id, engine name, mode) and one
// artifact row per compiled callback. Artifacts carry the rendered CFG, the
// read-only memory image, and a content hash; writes are idempotent so
// re-running a build over unchanged sources is a no-op.
package store
