package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "garagy/internal/errors"
)

func TestReverse(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"a":       "a",
		"DC321BA": "AB123CD",
		"ñandú":   "údnañ",
	}
	for in, want := range tests {
		assert.Equal(t, want, Reverse(in))
	}
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "AB123CD", NormalizePlate(" ab-123 cd "))
	assert.Equal(t, "AB123CD", NormalizePlate("AB.123.CD"))
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type req struct {
		OccupantID string `json:"occupantId" validate:"required"`
		Count      int    `json:"count" validate:"min=1"`
	}

	assert.NoError(t, ValidateStruct(req{OccupantID: "u1", Count: 1}))

	err := ValidateStruct(req{})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.Contains(t, apperrors.UserMessage(err), "occupantId is a required field")
	assert.Contains(t, apperrors.UserMessage(err), "count must be 1 or greater")
}
