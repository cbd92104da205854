package repository

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"garagy/internal/db"
	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
)

const layoutField = "layout"

// GarageRepository reads and writes garage documents and the layout nested
// inside them.
type GarageRepository struct {
	store  DocumentStore
	logger *log.Logger
}

func NewGarageRepository(store DocumentStore, logger *log.Logger) *GarageRepository {
	return &GarageRepository{store: store, logger: logger}
}

func (r *GarageRepository) CreateGarage(ctx context.Context, garageID, name string) error {
	doc, err := Encode(db.Garage{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return r.store.Set(ctx, db.CollectionGarages, garageID, doc)
}

func (r *GarageRepository) GetGarage(ctx context.Context, garageID string) (*db.Garage, error) {
	doc, err := r.store.Get(ctx, db.CollectionGarages, garageID)
	if err != nil {
		return nil, err
	}
	delete(doc, layoutField)
	var g db.Garage
	if err := Decode(doc, &g); err != nil {
		return nil, err
	}
	g.ID = garageID
	return &g, nil
}

// UpdateProfile overwrites the descriptive fields of an existing garage and
// leaves its layout alone.
func (r *GarageRepository) UpdateProfile(ctx context.Context, garageID string, g db.Garage) error {
	fields := Document{
		"name":        g.Name,
		"description": g.Description,
		"hourlyRate":  g.HourlyRate,
		"location":    nil,
		"pictures":    []string{},
	}
	if g.Location != nil {
		fields["location"] = Document{"address": g.Location.Address, "lat": g.Location.Lat, "lng": g.Location.Lng}
	}
	if g.Pictures != nil {
		fields["pictures"] = g.Pictures
	}
	return r.store.Update(ctx, db.CollectionGarages, garageID, fields)
}

func (r *GarageRepository) DeleteGarage(ctx context.Context, garageID string) error {
	return r.store.Delete(ctx, db.CollectionGarages, garageID)
}

// GetLayout returns the persisted layout. found is false when the garage
// has no layout yet, or when the stored one does not decode or validate;
// the latter is logged as a warning rather than failing the caller.
func (r *GarageRepository) GetLayout(ctx context.Context, garageID string) (l layout.GarageLayout, found bool, err error) {
	doc, err := r.store.Get(ctx, db.CollectionGarages, garageID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return layout.GarageLayout{}, false, nil
	}
	if err != nil {
		return layout.GarageLayout{}, false, err
	}
	raw, ok := doc[layoutField]
	if !ok || raw == nil {
		return layout.GarageLayout{}, false, nil
	}
	if err := Decode(raw, &l); err != nil {
		r.logger.Warn("stored layout does not decode, treating as missing", "garage", garageID, "err", err)
		return layout.GarageLayout{}, false, nil
	}
	if err := l.Validate(); err != nil {
		r.logger.Warn("stored layout is malformed, treating as missing", "garage", garageID, "err", err)
		return layout.GarageLayout{}, false, nil
	}
	return l, true, nil
}

// SaveLayout writes l under the garage document, creating the document if
// needed. The caller is expected to have validated l.
func (r *GarageRepository) SaveLayout(ctx context.Context, garageID string, l layout.GarageLayout) error {
	doc, err := Encode(l)
	if err != nil {
		return err
	}
	err = r.store.Update(ctx, db.CollectionGarages, garageID, Document{layoutField: doc})
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return r.store.Set(ctx, db.CollectionGarages, garageID, Document{layoutField: doc})
	}
	return err
}

// ListGarageIDs returns every garage id in the store.
func (r *GarageRepository) ListGarageIDs(ctx context.Context) ([]string, error) {
	recs, err := r.store.Find(ctx, db.CollectionGarages, "", nil)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}
