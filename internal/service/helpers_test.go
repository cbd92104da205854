package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"garagy/internal/db"
	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
	"garagy/internal/logger"
	"garagy/internal/repository"
)

type testEnv struct {
	store     *flakyStore
	garages   *repository.GarageRepository
	occupants *repository.OccupantRepository
	layouts   *LayoutService
	clock     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := &flakyStore{DocumentStore: repository.NewMemoryStore()}
	env := &testEnv{
		store:     store,
		garages:   repository.NewGarageRepository(store, logger.Discard()),
		occupants: repository.NewOccupantRepository(store),
		clock:     time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC),
	}
	env.layouts = NewLayoutService(env.garages, layout.NewCounterGenerator("slot-"), true, logger.Discard())
	env.layouts.now = func() time.Time { return env.clock }
	return env
}

// seedLayout persists a two-section layout (slot-1..slot-5) with an
// emergency section (slot-6..slot-10).
func (e *testEnv) seedLayout(t *testing.T, garageID string) layout.GarageLayout {
	t.Helper()
	l, err := e.layouts.Generate(context.Background(), garageID, entities.GenerateRequest{
		Configuration: layout.Configuration{SectionCount: 2, SectionSlots: []int{2, 3}},
	})
	require.NoError(t, err)
	saved, err := e.layouts.Save(context.Background(), garageID, l)
	require.NoError(t, err)
	return saved
}

// flakyStore fails writes, or reads of one collection, on demand.
type flakyStore struct {
	repository.DocumentStore
	mu             sync.Mutex
	failWrites     bool
	failCollection string
}

func (s *flakyStore) setFailWrites(v bool) {
	s.mu.Lock()
	s.failWrites = v
	s.mu.Unlock()
}

func (s *flakyStore) setFailCollection(c string) {
	s.mu.Lock()
	s.failCollection = c
	s.mu.Unlock()
}

func (s *flakyStore) writeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return apperrors.New(apperrors.CodeRemoteIO, "store unavailable")
	}
	return nil
}

func (s *flakyStore) readErr(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCollection == collection {
		return apperrors.New(apperrors.CodeRemoteIO, "store unavailable")
	}
	return nil
}

func (s *flakyStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	if err := s.readErr(collection); err != nil {
		return nil, err
	}
	return s.DocumentStore.Get(ctx, collection, id)
}

func (s *flakyStore) Set(ctx context.Context, collection, id string, doc repository.Document) error {
	if err := s.writeErr(); err != nil {
		return err
	}
	return s.DocumentStore.Set(ctx, collection, id, doc)
}

func (s *flakyStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	if err := s.writeErr(); err != nil {
		return err
	}
	return s.DocumentStore.Update(ctx, collection, id, fields)
}

type recordedNotice struct {
	user db.User
	data entities.ReservationEmailData
}

type fakeNotifier struct {
	sent chan recordedNotice
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan recordedNotice, 4)}
}

func (n *fakeNotifier) NotifyReservation(_ context.Context, user db.User, data entities.ReservationEmailData) {
	n.sent <- recordedNotice{user: user, data: data}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 80, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
