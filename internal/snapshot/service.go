package snapshot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/world"

	"github.com/google/uuid"
)

const defaultListLimit = 50

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Save stores the galaxy carried by frame under name.
func (s *Service) Save(ctx context.Context, name string, frame world.Frame) (*Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("snapshot name is required")
	}
	if len(name) > maxNameLength {
		return nil, errors.Validationf("snapshot name must be at most %d characters", maxNameLength)
	}

	planets := 0
	for _, sys := range frame.Galaxy.Systems {
		planets += len(sys.Planets)
	}

	st := frame.Galaxy
	snap := &Snapshot{
		ID:          uuid.NewString(),
		Name:        name,
		Tick:        frame.Tick,
		PlanetCount: planets,
		State:       &st,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.Create(ctx, snap); err != nil {
		return nil, err
	}

	s.logger.Info("Snapshot saved",
		"component", "snapshot_service",
		"operation", "save",
		"snapshot_id", snap.ID,
		"tick", snap.Tick,
		"planets", planets,
	)
	return snap, nil
}

func (s *Service) List(ctx context.Context) ([]Snapshot, error) {
	return s.repo.List(ctx, defaultListLimit)
}

func (s *Service) Get(ctx context.Context, id string) (*Snapshot, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, errors.WrapValidation("invalid snapshot id", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := uuid.Validate(id); err != nil {
		return errors.WrapValidation("invalid snapshot id", err)
	}
	return s.repo.Delete(ctx, id)
}

// Restore loads a snapshot and rebuilds its galaxy with the saved IDs.
func (s *Service) Restore(ctx context.Context, id string, logger *slog.Logger) (*galaxy.Galaxy, *Snapshot, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	g, err := galaxy.FromState(*snap.State, logger)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Snapshot restored",
		"component", "snapshot_service",
		"operation", "restore",
		"snapshot_id", snap.ID,
		"tick", snap.Tick,
	)
	return g, snap, nil
}
