package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"garagy/internal/db"
	apperrors "garagy/internal/errors"
)

type AdminAuthRepository interface {
	// GetByEmail returns nil, nil when no admin has that email.
	GetByEmail(ctx context.Context, email string) (*db.Admin, error)
	GetByID(ctx context.Context, id string) (*db.Admin, error)
	CreateNewUser(ctx context.Context, email, password, garageID string) (*db.Admin, error)
}

type adminAuthRepository struct {
	store DocumentStore
}

func NewAdminAuthRepository(store DocumentStore) AdminAuthRepository {
	return &adminAuthRepository{store: store}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *adminAuthRepository) GetByEmail(ctx context.Context, email string) (*db.Admin, error) {
	recs, err := r.store.Find(ctx, db.CollectionAdmins, "email", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	var admin db.Admin
	if err := Decode(recs[0].Data, &admin); err != nil {
		return nil, err
	}
	admin.ID = recs[0].ID
	return &admin, nil
}

func (r *adminAuthRepository) GetByID(ctx context.Context, id string) (*db.Admin, error) {
	doc, err := r.store.Get(ctx, db.CollectionAdmins, id)
	if err != nil {
		return nil, err
	}
	var admin db.Admin
	if err := Decode(doc, &admin); err != nil {
		return nil, err
	}
	admin.ID = id
	return &admin, nil
}

// CreateNewUser hashes password and stores a new admin bound to garageID.
func (r *adminAuthRepository) CreateNewUser(ctx context.Context, email, password, garageID string) (*db.Admin, error) {
	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.CodeConflict, "an admin with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err, "password cannot be hashed")
	}
	admin := &db.Admin{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hashedPassword),
		GarageID:     garageID,
		CreatedAt:    time.Now().UTC(),
	}
	doc, err := Encode(admin)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, db.CollectionAdmins, admin.ID, doc); err != nil {
		return nil, err
	}
	return admin, nil
}
