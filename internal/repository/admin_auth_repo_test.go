package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "garagy/internal/errors"
)

func TestAdminAuthRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminAuthRepository(NewMemoryStore())

	admin, err := repo.GetByEmail(ctx, "boss@garagy.test")
	require.NoError(t, err)
	assert.Nil(t, admin)

	created, err := repo.CreateNewUser(ctx, " Boss@Garagy.test ", "s3cret!", "g1")
	require.NoError(t, err)
	assert.Equal(t, "boss@garagy.test", created.Email)
	assert.NotEmpty(t, created.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret!")))

	found, err := repo.GetByEmail(ctx, "BOSS@garagy.test")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "g1", found.GarageID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "boss@garagy.test", byID.Email)

	_, err = repo.CreateNewUser(ctx, "boss@garagy.test", "other", "g2")
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}
