package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagy/internal/db"
	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/logger"
)

func floatPtr(v float64) *float64 { return &v }

func validProfile() entities.GarageProfileRequest {
	return entities.GarageProfileRequest{
		Name:        " Centro ",
		Description: "Covered parking next to the station",
		HourlyRate:  floatPtr(3),
		Address:     "Calle 9 de Julio 100",
		Lat:         floatPtr(-34.6),
		Lng:         floatPtr(-58.38),
		Pictures:    []string{"https://img.garagy.test/a.jpg", "  ", "https://img.garagy.test/b.jpg"},
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewGarageService(env.garages, logger.Discard())
	require.NoError(t, env.garages.CreateGarage(ctx, "g1", "Old name"))
	seeded := env.seedLayout(t, "g1")

	got, err := svc.UpdateProfile(ctx, "g1", validProfile())
	require.NoError(t, err)
	assert.Equal(t, "Centro", got.Name)
	assert.Equal(t, 3.0, got.HourlyRate)
	assert.Equal(t, &db.Location{Address: "Calle 9 de Julio 100", Lat: -34.6, Lng: -58.38}, got.Location)
	assert.Equal(t, []string{"https://img.garagy.test/a.jpg", "https://img.garagy.test/b.jpg"}, got.Pictures)

	again, err := svc.Profile(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	current, found, err := env.garages.GetLayout(ctx, "g1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, seeded, current)
}

func TestUpdateProfileRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewGarageService(env.garages, logger.Discard())
	require.NoError(t, env.garages.CreateGarage(ctx, "g1", "Centro"))

	tests := []struct {
		name   string
		mutate func(*entities.GarageProfileRequest)
	}{
		{"blank name", func(r *entities.GarageProfileRequest) { r.Name = "   " }},
		{"missing description", func(r *entities.GarageProfileRequest) { r.Description = "" }},
		{"missing rate", func(r *entities.GarageProfileRequest) { r.HourlyRate = nil }},
		{"zero rate", func(r *entities.GarageProfileRequest) { r.HourlyRate = floatPtr(0) }},
		{"missing address", func(r *entities.GarageProfileRequest) { r.Address = "" }},
		{"missing lat", func(r *entities.GarageProfileRequest) { r.Lat = nil }},
		{"lat out of range", func(r *entities.GarageProfileRequest) { r.Lat = floatPtr(91) }},
		{"lng out of range", func(r *entities.GarageProfileRequest) { r.Lng = floatPtr(-181) }},
		{"not a url", func(r *entities.GarageProfileRequest) { r.Pictures = []string{"garage.jpg"} }},
		{"too many pictures", func(r *entities.GarageProfileRequest) {
			r.Pictures = []string{"https://a.test/1", "https://a.test/2", "https://a.test/3", "https://a.test/4", "https://a.test/5"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProfile()
			tt.mutate(&req)
			_, err := svc.UpdateProfile(ctx, "g1", req)
			assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput), "got %v", err)
		})
	}

	g, err := svc.Profile(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, g.Description)
}

func TestProfileUnknownGarage(t *testing.T) {
	env := newTestEnv(t)
	svc := NewGarageService(env.garages, logger.Discard())

	_, err := svc.Profile(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	_, err = svc.UpdateProfile(context.Background(), "missing", validProfile())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
