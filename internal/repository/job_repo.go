package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"garagy/internal/db"
)

// JobRepository stores the occupancy snapshots written by the cron job.
type JobRepository struct {
	store  DocumentStore
	logger *log.Logger
}

func NewJobRepository(store DocumentStore, logger *log.Logger) *JobRepository {
	return &JobRepository{store: store, logger: logger}
}

func (r *JobRepository) InsertSnapshot(ctx context.Context, s db.OccupancySnapshot) error {
	doc, err := Encode(s)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, db.CollectionSnapshots, s.ID, doc); err != nil {
		return fmt.Errorf("error inserting snapshot for garage %s: %w", s.GarageID, err)
	}
	return nil
}

// ListSnapshots returns a garage's snapshots, newest first.
func (r *JobRepository) ListSnapshots(ctx context.Context, garageID string) ([]db.OccupancySnapshot, error) {
	recs, err := r.store.Find(ctx, db.CollectionSnapshots, "garageId", garageID)
	if err != nil {
		return nil, fmt.Errorf("error querying snapshots: %w", err)
	}
	snaps, err := decodeSnapshots(recs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].CreatedAt.After(snaps[j].CreatedAt) })
	return snaps, nil
}

// DeleteSnapshotsOlderThan removes snapshots of every garage created
// before the given time and returns how many were removed.
func (r *JobRepository) DeleteSnapshotsOlderThan(ctx context.Context, before time.Time) (int, error) {
	recs, err := r.store.Find(ctx, db.CollectionSnapshots, "", nil)
	if err != nil {
		return 0, fmt.Errorf("error querying snapshots: %w", err)
	}
	snaps, err := decodeSnapshots(recs)
	if err != nil {
		return 0, err
	}
	var ids []string
	for _, s := range snaps {
		if s.CreatedAt.Before(before) {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.store.Delete(ctx, db.CollectionSnapshots, ids...); err != nil {
		return 0, fmt.Errorf("error deleting old snapshots: %w", err)
	}
	r.logger.Info("pruned occupancy snapshots", "count", len(ids), "before", before.Format(time.RFC3339))
	return len(ids), nil
}

func decodeSnapshots(recs []Record) ([]db.OccupancySnapshot, error) {
	out := make([]db.OccupancySnapshot, 0, len(recs))
	for _, rec := range recs {
		var s db.OccupancySnapshot
		if err := Decode(rec.Data, &s); err != nil {
			return nil, err
		}
		s.ID = rec.ID
		out = append(out, s)
	}
	return out, nil
}
