package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"garagy/internal/db"
	"garagy/internal/repository"
)

// JobService records periodic occupancy snapshots for every garage and
// prunes the old ones.
type JobService struct {
	garages   *repository.GarageRepository
	repo      *repository.JobRepository
	retention time.Duration
	logger    *log.Logger
	now       func() time.Time
}

func NewJobService(garages *repository.GarageRepository, repo *repository.JobRepository, retention time.Duration, logger *log.Logger) *JobService {
	return &JobService{
		garages:   garages,
		repo:      repo,
		retention: retention,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// TakeOccupancySnapshots writes one snapshot per garage that has a layout.
// A failing garage is logged and does not stop the others.
func (s *JobService) TakeOccupancySnapshots(ctx context.Context) (int, error) {
	ids, err := s.garages.ListGarageIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to list garages: %w", err)
	}
	now := s.now()
	written := 0
	for _, id := range ids {
		l, found, err := s.garages.GetLayout(ctx, id)
		if err != nil {
			s.logger.Error("cron job: layout not loaded", "garage", id, "err", err)
			continue
		}
		if !found {
			continue
		}
		c := l.Counts()
		snap := db.OccupancySnapshot{
			ID:          uuid.NewString(),
			GarageID:    id,
			Total:       c.Total,
			Available:   c.Available,
			Unavailable: c.Unavailable,
			Reserved:    c.Reserved,
			CreatedAt:   now,
		}
		if err := s.repo.InsertSnapshot(ctx, snap); err != nil {
			s.logger.Error("cron job: snapshot not written", "garage", id, "err", err)
			continue
		}
		written++
	}
	s.logger.Info("cron job: occupancy snapshots written", "count", written)
	return written, nil
}

// PruneSnapshots deletes snapshots older than the retention window.
func (s *JobService) PruneSnapshots(ctx context.Context) (int, error) {
	return s.repo.DeleteSnapshotsOlderThan(ctx, s.now().Add(-s.retention))
}

func (s *JobService) Snapshots(ctx context.Context, garageID string) ([]db.OccupancySnapshot, error) {
	return s.repo.ListSnapshots(ctx, garageID)
}

// Schedule registers the snapshot and prune run on c.
func (s *JobService) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		ctx := context.Background()
		if _, err := s.TakeOccupancySnapshots(ctx); err != nil {
			s.logger.Error("cron job: snapshots failed", "err", err)
		}
		if _, err := s.PruneSnapshots(ctx); err != nil {
			s.logger.Error("cron job: prune failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron job: invalid schedule %q: %w", spec, err)
	}
	return nil
}
