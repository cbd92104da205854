package detection

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "garagy/internal/errors"
	"garagy/internal/utils"
)

// PlateClient calls the licence plate classifier used at the gates.
type PlateClient struct {
	http    *http.Client
	url     string
	limiter *rate.Limiter
}

func NewPlateClient(url string, timeout time.Duration, perSecond float64) *PlateClient {
	return &PlateClient{
		http:    &http.Client{Timeout: timeout},
		url:     url,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

type plateResponse struct {
	Message string `json:"message"`
}

// Recognize posts a vehicle photo and returns the plate text. The
// classifier answers with the characters in reverse order.
func (c *PlateClient) Recognize(ctx context.Context, image []byte, filename string) (string, error) {
	if len(image) == 0 {
		return "", apperrors.New(apperrors.CodeInvalidInput, "image is required")
	}
	if filename == "" {
		filename = "car.png"
	}
	body, contentType, err := multipartBody(filePart{field: "image", filename: filename, contentType: "image/png", data: image})
	if err != nil {
		return "", err
	}
	raw, err := post(ctx, c.http, c.limiter, c.url, contentType, body)
	if err != nil {
		return "", err
	}
	var resp plateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", apperrors.Wrap(apperrors.CodeDataShape, err, "plate response is not valid JSON")
	}
	plate := strings.TrimSpace(utils.Reverse(resp.Message))
	if plate == "" {
		return "", apperrors.New(apperrors.CodeDataShape, "no plate returned")
	}
	return plate, nil
}
