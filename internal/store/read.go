package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested build or artifact does not exist.
var ErrNotFound = errors.New("not found")

// GetBuild returns the build with the given id.
func (s *Store) GetBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, engine, engine_version, mode, created_at
		FROM builds WHERE id = ?
	`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("build %s: %w", id, ErrNotFound)
	}
	return b, err
}

// LatestBuild returns the most recently created build, if any.
func (s *Store) LatestBuild(ctx context.Context) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, engine, engine_version, mode, created_at
		FROM builds ORDER BY created_at DESC, id DESC LIMIT 1
	`)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("no builds: %w", ErrNotFound)
	}
	return b, err
}

// ListBuilds returns all builds, newest first.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, engine, engine_version, mode, created_at
		FROM builds ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("list builds: %w", err)
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// GetArtifact returns one callback's artifact within a build.
func (s *Store) GetArtifact(ctx context.Context, buildID, callback string) (Artifact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT build_id, callback, script, content_hash, cfg_text, rom, block_count
		FROM artifacts WHERE build_id = ? AND callback = ?
	`, buildID, callback)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Artifact{}, fmt.Errorf("artifact %s/%s: %w", buildID, callback, ErrNotFound)
	}
	return a, err
}

// ListArtifacts returns a build's artifacts ordered by callback name.
func (s *Store) ListArtifacts(ctx context.Context, buildID string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT build_id, callback, script, content_hash, cfg_text, rom, block_count
		FROM artifacts WHERE build_id = ? ORDER BY callback
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("list artifacts: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (Build, error) {
	var b Build
	var created string
	if err := row.Scan(&b.ID, &b.Engine, &b.EngineVersion, &b.Mode, &created); err != nil {
		return Build{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Build{}, fmt.Errorf("parse created_at: %w", err)
	}
	b.CreatedAt = t
	return b, nil
}

func scanArtifact(row scanner) (Artifact, error) {
	var a Artifact
	var romJSON string
	if err := row.Scan(&a.BuildID, &a.Callback, &a.Script, &a.Hash, &a.CFGText, &romJSON, &a.BlockCount); err != nil {
		return Artifact{}, err
	}
	rom, err := unmarshalRom(romJSON)
	if err != nil {
		return Artifact{}, err
	}
	a.Rom = rom
	return a, nil
}
