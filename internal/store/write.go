package store

import (
	"context"
	"fmt"
	"time"
)

// WriteBuild inserts a build record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
func (s *Store) WriteBuild(ctx context.Context, b Build) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (id, engine, engine_version, mode, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		b.ID,
		b.Engine,
		b.EngineVersion,
		b.Mode,
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write build: %w", err)
	}
	return nil
}

// WriteArtifact inserts one compiled callback.
// Each build holds at most one artifact per callback slot (UNIQUE constraint
// on build_id, callback); a duplicate write for the same slot is silently
// ignored for idempotency. The build referenced by BuildID must exist
// (foreign key constraint).
func (s *Store) WriteArtifact(ctx context.Context, a Artifact) error {
	if a.Hash == "" {
		a.Hash = ContentHash(a.Callback, a.CFGText, a.Rom)
	}

	romJSON, err := marshalRom(a.Rom)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artifacts
		(build_id, callback, script, content_hash, cfg_text, rom, block_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(build_id, callback) DO NOTHING
	`,
		a.BuildID,
		a.Callback,
		a.Script,
		a.Hash,
		a.CFGText,
		romJSON,
		a.BlockCount,
	)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
