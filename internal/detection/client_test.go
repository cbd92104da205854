package detection

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
)

var square = []layout.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

func TestDetectSendsMultipartAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		img, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		data, _ := io.ReadAll(img)
		assert.Equal(t, "PNGDATA", string(data))
		assert.Equal(t, "garage.png", hdr.Filename)

		slotsFile, hdr, err := r.FormFile("slots")
		require.NoError(t, err)
		assert.Equal(t, "slots.json", hdr.Filename)
		assert.Equal(t, "application/json", hdr.Header.Get("Content-Type"))
		var anns []layout.Annotation
		require.NoError(t, json.NewDecoder(slotsFile).Decode(&anns))
		assert.Equal(t, "slot_1", anns[0].ID)
		assert.Equal(t, "gate", anns[1].ID)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"slots":[{"slot_id":"slot_1","status":"occupied"},{"slot_id":"gate","status":"free"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 100)
	resp, anns, err := c.Detect(context.Background(), []byte("PNGDATA"), []layout.Annotation{
		{Points: square}, {ID: "gate", Points: square},
	})
	require.NoError(t, err)
	assert.Len(t, anns, 2)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "slot_1", resp.Slots[0].SlotID)
	assert.Equal(t, "occupied", resp.Slots[0].Status)
}

func TestDetectRejectsShortPolygonWithoutCalling(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 100)
	_, _, err := c.Detect(context.Background(), []byte("img"), []layout.Annotation{
		{ID: "a", Points: square},
		{ID: "b", Points: []layout.Point{{0, 0}, {1, 1}}},
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.Zero(t, calls.Load())
}

func TestDetectErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   apperrors.Code
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, apperrors.CodeRemoteIO},
		{"bad request", http.StatusBadRequest, ``, apperrors.CodeRemoteIO},
		{"malformed json", http.StatusOK, `{"slots":`, apperrors.CodeDataShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, _, err := NewClient(srv.URL, time.Second, 100).Detect(context.Background(), []byte("img"), []layout.Annotation{{ID: "a", Points: square}})
			assert.True(t, apperrors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestDetectUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, _, err := NewClient(url, time.Second, 100).Detect(context.Background(), []byte("img"), []layout.Annotation{{ID: "a", Points: square}})
	assert.True(t, apperrors.Is(err, apperrors.CodeRemoteIO))
}

func TestDetectRequiresImage(t *testing.T) {
	_, _, err := NewClient("http://unused", time.Second, 1).Detect(context.Background(), nil, []layout.Annotation{{ID: "a", Points: square}})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}
