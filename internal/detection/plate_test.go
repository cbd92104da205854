package detection

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "garagy/internal/errors"
)

func TestRecognizeUnreversesPlate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "car.jpg", hdr.Filename)
		io.WriteString(w, `{"message":"DC321BA"}`)
	}))
	defer srv.Close()

	plate, err := NewPlateClient(srv.URL, time.Second, 100).Recognize(context.Background(), []byte("jpeg"), "car.jpg")
	require.NoError(t, err)
	assert.Equal(t, "AB123CD", plate)
}

func TestRecognizeEmptyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"  "}`)
	}))
	defer srv.Close()

	_, err := NewPlateClient(srv.URL, time.Second, 100).Recognize(context.Background(), []byte("jpeg"), "")
	assert.True(t, apperrors.Is(err, apperrors.CodeDataShape))
}

func TestRecognizeRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewPlateClient(srv.URL, time.Second, 100).Recognize(context.Background(), []byte("jpeg"), "")
	assert.True(t, apperrors.Is(err, apperrors.CodeRemoteIO))
}
