package entities

import (
	"time"

	"garagy/internal/layout"
)

type PreviewResponse struct {
	PreviewID   string              `json:"previewId"`
	Layout      layout.GarageLayout `json:"layout"`
	Counts      layout.Counts       `json:"counts"`
	Annotations []layout.Annotation `json:"annotations"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}
