package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
)

// Preview is a detection result held aside until an admin adopts or
// discards it. It never touches the persisted layout on its own.
type Preview struct {
	ID          string              `json:"id"`
	GarageID    string              `json:"garageId"`
	Layout      layout.GarageLayout `json:"layout"`
	Annotations []layout.Annotation `json:"annotations"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

type PreviewStore interface {
	Put(ctx context.Context, p Preview, ttl time.Duration) error
	Get(ctx context.Context, garageID, previewID string) (Preview, error)
	Delete(ctx context.Context, garageID, previewID string) error
}

func previewKey(garageID, previewID string) string {
	return "preview:" + garageID + ":" + previewID
}

func previewNotFound(previewID string) error {
	return apperrors.New(apperrors.CodeNotFound, "preview %s not found or expired", previewID)
}

// RedisPreviewStore keeps previews as JSON strings with a TTL.
type RedisPreviewStore struct {
	client *redis.Client
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func NewRedisPreviewStore(client *redis.Client) *RedisPreviewStore {
	return &RedisPreviewStore{client: client}
}

func (s *RedisPreviewStore) Put(ctx context.Context, p Preview, ttl time.Duration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "encode preview")
	}
	if err := s.client.Set(ctx, previewKey(p.GarageID, p.ID), raw, ttl).Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeRemoteIO, err, "store preview")
	}
	return nil
}

func (s *RedisPreviewStore) Get(ctx context.Context, garageID, previewID string) (Preview, error) {
	raw, err := s.client.Get(ctx, previewKey(garageID, previewID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Preview{}, previewNotFound(previewID)
	}
	if err != nil {
		return Preview{}, apperrors.Wrap(apperrors.CodeRemoteIO, err, "load preview")
	}
	var p Preview
	if err := json.Unmarshal(raw, &p); err != nil {
		return Preview{}, apperrors.Wrap(apperrors.CodeDataShape, err, "decode preview")
	}
	return p, nil
}

func (s *RedisPreviewStore) Delete(ctx context.Context, garageID, previewID string) error {
	n, err := s.client.Del(ctx, previewKey(garageID, previewID)).Result()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRemoteIO, err, "delete preview")
	}
	if n == 0 {
		return previewNotFound(previewID)
	}
	return nil
}

// MemoryPreviewStore is the PreviewStore used when no redis is configured.
// Expired entries are dropped lazily on access.
type MemoryPreviewStore struct {
	mu    sync.Mutex
	items map[string]memoryPreview
	now   func() time.Time
}

type memoryPreview struct {
	raw     []byte
	expires time.Time
}

func NewMemoryPreviewStore(now func() time.Time) *MemoryPreviewStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryPreviewStore{items: make(map[string]memoryPreview), now: now}
}

func (s *MemoryPreviewStore) Put(_ context.Context, p Preview, ttl time.Duration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "encode preview")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[previewKey(p.GarageID, p.ID)] = memoryPreview{raw: raw, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryPreviewStore) Get(_ context.Context, garageID, previewID string) (Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := previewKey(garageID, previewID)
	item, ok := s.items[key]
	if !ok {
		return Preview{}, previewNotFound(previewID)
	}
	if !s.now().Before(item.expires) {
		delete(s.items, key)
		return Preview{}, previewNotFound(previewID)
	}
	var p Preview
	if err := json.Unmarshal(item.raw, &p); err != nil {
		return Preview{}, apperrors.Wrap(apperrors.CodeDataShape, err, "decode preview")
	}
	return p, nil
}

func (s *MemoryPreviewStore) Delete(ctx context.Context, garageID, previewID string) error {
	if _, err := s.Get(ctx, garageID, previewID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, previewKey(garageID, previewID))
	return nil
}
