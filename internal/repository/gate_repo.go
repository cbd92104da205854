package repository

import (
	"context"
	"sort"

	"garagy/internal/db"
)

type GateRepository struct {
	store DocumentStore
}

func NewGateRepository(store DocumentStore) *GateRepository {
	return &GateRepository{store: store}
}

func (r *GateRepository) InsertEvent(ctx context.Context, e db.GateEvent) error {
	doc, err := Encode(e)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, db.CollectionGateEvents, e.ID, doc)
}

// ListEvents returns up to limit events of a garage, newest first. A limit
// of zero or less returns all of them.
func (r *GateRepository) ListEvents(ctx context.Context, garageID string, limit int) ([]db.GateEvent, error) {
	recs, err := r.store.Find(ctx, db.CollectionGateEvents, "garageId", garageID)
	if err != nil {
		return nil, err
	}
	events := make([]db.GateEvent, 0, len(recs))
	for _, rec := range recs {
		var e db.GateEvent
		if err := Decode(rec.Data, &e); err != nil {
			return nil, err
		}
		e.ID = rec.ID
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
