// Package detection talks to the vision service that classifies annotated
// parking slots in a garage photo and reads licence plates at the gates.
package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"golang.org/x/time/rate"

	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client calls the slot detection endpoint. Calls are throttled by a
// shared limiter so a burst of admin clicks does not flood the model.
type Client struct {
	http    *http.Client
	url     string
	limiter *rate.Limiter
}

// NewClient creates a Client for url. perSecond limits outgoing requests,
// with a burst of one.
func NewClient(url string, timeout time.Duration, perSecond float64) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		url:     url,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Detect validates anns, posts them with the image and returns the raw
// detection response. Invalid annotations fail before any request is made.
func (c *Client) Detect(ctx context.Context, image []byte, anns []layout.Annotation) (layout.DetectionResponse, []layout.Annotation, error) {
	anns, err := layout.ValidateAnnotations(anns)
	if err != nil {
		return layout.DetectionResponse{}, nil, err
	}
	if len(image) == 0 {
		return layout.DetectionResponse{}, nil, apperrors.New(apperrors.CodeInvalidInput, "image is required")
	}
	slots, err := json.Marshal(anns)
	if err != nil {
		return layout.DetectionResponse{}, nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode annotations")
	}

	body, contentType, err := multipartBody(
		filePart{field: "image", filename: "garage.png", contentType: "image/png", data: image},
		filePart{field: "slots", filename: "slots.json", contentType: "application/json", data: slots},
	)
	if err != nil {
		return layout.DetectionResponse{}, nil, err
	}

	raw, err := post(ctx, c.http, c.limiter, c.url, contentType, body)
	if err != nil {
		return layout.DetectionResponse{}, nil, err
	}
	var resp layout.DetectionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return layout.DetectionResponse{}, nil, apperrors.Wrap(apperrors.CodeDataShape, err, "detection response is not valid JSON")
	}
	return resp, anns, nil
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(parts ...filePart) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", apperrors.Wrap(apperrors.CodeInternal, err, "build multipart body")
		}
		if _, err := pw.Write(p.data); err != nil {
			return nil, "", apperrors.Wrap(apperrors.CodeInternal, err, "build multipart body")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, err, "build multipart body")
	}
	return &buf, w.FormDataContentType(), nil
}

// post sends body to url once the limiter allows it and returns the body
// of a 2xx response. Anything else is a REMOTE_IO error.
func post(ctx context.Context, hc *http.Client, limiter *rate.Limiter, url, contentType string, body io.Reader) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemoteIO, err, "vision service call cancelled")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "build vision request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemoteIO, err, "vision service unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemoteIO, err, "read vision response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.New(apperrors.CodeRemoteIO, "vision service answered %s", resp.Status)
	}
	return raw, nil
}
