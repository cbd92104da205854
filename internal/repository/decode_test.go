package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	apperrors "garagy/internal/errors"
)

func TestDecodeRawPostgresRow(t *testing.T) {
	doc, err := decodeRaw([]byte(`{"name":"Central","layout":{"sectionCount":1}}`), "garages")
	require.NoError(t, err)
	assert.Equal(t, "Central", doc["name"])

	_, err = decodeRaw([]byte(`{"name":`), "garages")
	assert.True(t, apperrors.Is(err, apperrors.CodeDataShape), "got %v", err)
	assert.False(t, apperrors.Is(err, apperrors.CodeRemoteIO))
}

func TestFromBSON(t *testing.T) {
	doc, err := fromBSON(bson.M{"_id": "g1", "name": "Central", "location": bson.M{"lat": 1.5}, "pictures": bson.A{"a"}}, "garages")
	require.NoError(t, err)
	assert.Equal(t, Document{
		"name":     "Central",
		"location": map[string]any{"lat": 1.5},
		"pictures": []any{"a"},
	}, doc)

	_, err = fromBSON(bson.M{"_id": "g2", "hourlyRate": math.NaN()}, "garages")
	assert.True(t, apperrors.Is(err, apperrors.CodeDataShape), "got %v", err)
}
