package repository

import (
	"context"

	"garagy/internal/db"
)

// OccupantRepository looks up the customers recorded on reserved slots.
type OccupantRepository struct {
	store DocumentStore
}

func NewOccupantRepository(store DocumentStore) *OccupantRepository {
	return &OccupantRepository{store: store}
}

// GetOccupant returns the user document for id. Missing users are NOT_FOUND.
func (r *OccupantRepository) GetOccupant(ctx context.Context, id string) (*db.User, error) {
	doc, err := r.store.Get(ctx, db.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	var user db.User
	if err := Decode(doc, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *OccupantRepository) SaveOccupant(ctx context.Context, id string, user db.User) error {
	doc, err := Encode(user)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, db.CollectionUsers, id, doc)
}
