package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
	"garagy/internal/logger"
	"garagy/internal/repository"
)

type fakeDetector struct {
	calls int
	resp  layout.DetectionResponse
	err   error
}

func (d *fakeDetector) Detect(_ context.Context, _ []byte, anns []layout.Annotation) (layout.DetectionResponse, []layout.Annotation, error) {
	d.calls++
	return d.resp, anns, d.err
}

type failingBlobs struct{}

func (failingBlobs) Save(context.Context, string, []byte) (string, error) {
	return "", errors.New("disk full")
}

var triangle = []layout.Point{{0, 0}, {10, 0}, {10, 10}}

func newDetectionService(t *testing.T, env *testEnv, d Detector, blobs repository.BlobStore) *DetectionService {
	t.Helper()
	previews := repository.NewMemoryPreviewStore(func() time.Time { return env.clock })
	svc := NewDetectionService(d, previews, blobs, env.layouts, 15*time.Minute, logger.Discard())
	svc.now = func() time.Time { return env.clock }
	return svc
}

func okDetector() *fakeDetector {
	return &fakeDetector{resp: layout.DetectionResponse{Slots: []layout.DetectedSlot{
		{SlotID: "slot_1", Status: "free"},
		{SlotID: "slot_2", Status: "occupied"},
	}}}
}

func TestCreatePreview(t *testing.T) {
	env := newTestEnv(t)
	blobs := repository.NewDiskBlobStore(t.TempDir(), "http://localhost:8080")
	svc := newDetectionService(t, env, okDetector(), blobs)

	p, err := svc.CreatePreview(context.Background(), "g1", testPNG(t, 40, 30), []layout.Annotation{{Points: triangle}, {Points: triangle}})
	require.NoError(t, err)
	assert.NotEmpty(t, p.PreviewID)
	assert.Equal(t, layout.Counts{Total: 2, Available: 1, Unavailable: 1}, p.Counts)
	assert.Equal(t, "slot_2", p.Annotations[1].ID)
	assert.Equal(t, env.clock.Add(15*time.Minute), p.ExpiresAt)
	assert.Contains(t, p.ImageURL, "/uploads/detection/g1/")

	got, err := svc.GetPreview(context.Background(), "g1", p.PreviewID)
	require.NoError(t, err)
	assert.Equal(t, p.Layout.Sections, got.Layout.Sections)

	// Previews are scoped to their garage.
	_, err = svc.GetPreview(context.Background(), "g2", p.PreviewID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestCreatePreviewRejectsBadInputBeforeDetecting(t *testing.T) {
	env := newTestEnv(t)
	d := okDetector()
	svc := newDetectionService(t, env, d, failingBlobs{})

	_, err := svc.CreatePreview(context.Background(), "g1", testPNG(t, 8, 8), []layout.Annotation{{Points: triangle[:2]}})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	_, err = svc.CreatePreview(context.Background(), "g1", []byte("not an image"), []layout.Annotation{{Points: triangle}})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	assert.Zero(t, d.calls)
}

func TestCreatePreviewUnknownStatusLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	d := &fakeDetector{resp: layout.DetectionResponse{Slots: []layout.DetectedSlot{{SlotID: "slot_1", Status: "blocked"}}}}
	svc := newDetectionService(t, env, d, failingBlobs{})

	_, err := svc.CreatePreview(context.Background(), "g1", testPNG(t, 8, 8), []layout.Annotation{{Points: triangle}})
	assert.True(t, apperrors.Is(err, apperrors.CodeDataShape))
	assert.Equal(t, 1, d.calls)

	_, err = env.layouts.Current(context.Background(), "g1")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestCreatePreviewDetectorFailure(t *testing.T) {
	env := newTestEnv(t)
	d := &fakeDetector{err: apperrors.New(apperrors.CodeRemoteIO, "detection service answered 502")}
	svc := newDetectionService(t, env, d, failingBlobs{})

	_, err := svc.CreatePreview(context.Background(), "g1", testPNG(t, 8, 8), []layout.Annotation{{Points: triangle}})
	assert.True(t, apperrors.Is(err, apperrors.CodeRemoteIO))
}

func TestAdoptAndDiscardPreview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newDetectionService(t, env, okDetector(), failingBlobs{})

	p, err := svc.CreatePreview(ctx, "g1", testPNG(t, 8, 8), []layout.Annotation{{Points: triangle}, {Points: triangle}})
	require.NoError(t, err)
	assert.Empty(t, p.ImageURL, "image storage is best effort")

	saved, err := svc.AdoptPreview(ctx, "g1", p.PreviewID)
	require.NoError(t, err)
	assert.Equal(t, env.clock, saved.LastUpdated)

	cur, err := env.layouts.Current(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, p.Layout.Sections, cur.Layout.Sections)

	_, err = svc.GetPreview(ctx, "g1", p.PreviewID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	p, err = svc.CreatePreview(ctx, "g1", testPNG(t, 8, 8), []layout.Annotation{{Points: triangle}})
	require.NoError(t, err)
	require.NoError(t, svc.DiscardPreview(ctx, "g1", p.PreviewID))
	assert.True(t, apperrors.Is(svc.DiscardPreview(ctx, "g1", p.PreviewID), apperrors.CodeNotFound))
	_, err = svc.AdoptPreview(ctx, "g1", p.PreviewID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
