package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing snapshot repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Create(ctx context.Context, snap *Snapshot) error {
	logger := r.logger.With(
		"component", "snapshot_repository",
		"operation", "create",
		"snapshot_id", snap.ID,
		"name", snap.Name,
	)

	data, err := json.Marshal(snap.State)
	if err != nil {
		return errors.WrapInternal("failed to encode galaxy state", err)
	}

	query := r.db.Rebind(`
		INSERT INTO snapshots (id, name, tick, planet_count, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		snap.ID,
		snap.Name,
		snap.Tick,
		snap.PlanetCount,
		string(data),
		snap.CreatedAt,
	)
	if err != nil {
		logger.Error("Failed to insert snapshot", "error", err)
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	logger.Info("Snapshot stored", "tick", snap.Tick, "bytes", len(data))
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Snapshot, error) {
	logger := r.logger.With("component", "snapshot_repository", "operation", "get", "snapshot_id", id)

	query := r.db.Rebind(`
		SELECT id, name, tick, planet_count, data, created_at
		FROM snapshots
		WHERE id = ?`)

	var (
		snap Snapshot
		data []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&snap.ID,
		&snap.Name,
		&snap.Tick,
		&snap.PlanetCount,
		&data,
		&snap.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("snapshot not found with id: %s", id)
	}
	if err != nil {
		logger.Error("Failed to get snapshot", "error", err)
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var st galaxy.State
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Error("Stored snapshot is not valid JSON", "error", err)
		return nil, errors.WrapInternal("failed to decode galaxy state", err)
	}
	snap.State = &st

	return &snap, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	logger := r.logger.With("component", "snapshot_repository", "operation", "list")

	query := r.db.Rebind(`
		SELECT id, name, tick, planet_count, created_at
		FROM snapshots
		ORDER BY created_at DESC
		LIMIT ?`)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		logger.Error("Failed to query snapshots", "error", err)
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	snapshots := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Tick, &snap.PlanetCount, &snap.CreatedAt); err != nil {
			logger.Error("Failed to scan snapshot row", "error", err)
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error iterating snapshot rows", "error", err)
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	logger := r.logger.With("component", "snapshot_repository", "operation", "delete", "snapshot_id", id)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM snapshots WHERE id = ?`), id)
	if err != nil {
		logger.Error("Failed to delete snapshot", "error", err)
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return errors.NotFoundf("snapshot not found with id: %s", id)
	}

	logger.Info("Snapshot deleted")
	return nil
}
