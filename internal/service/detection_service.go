package service

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
	"garagy/internal/repository"
)

// Detector classifies annotated slots in a garage photo.
type Detector interface {
	Detect(ctx context.Context, image []byte, anns []layout.Annotation) (layout.DetectionResponse, []layout.Annotation, error)
}

// DetectionService turns detection results into previews an admin can
// inspect, adopt as the garage layout, or discard.
type DetectionService struct {
	detector Detector
	previews repository.PreviewStore
	blobs    repository.BlobStore
	layouts  *LayoutService
	ttl      time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewDetectionService(detector Detector, previews repository.PreviewStore, blobs repository.BlobStore, layouts *LayoutService, ttl time.Duration, logger *log.Logger) *DetectionService {
	return &DetectionService{
		detector: detector,
		previews: previews,
		blobs:    blobs,
		layouts:  layouts,
		ttl:      ttl,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePreview validates the annotations, normalises the photo to PNG,
// calls the detector and stores the adapted layout as a preview. A
// response that cannot be adapted leaves no preview behind.
func (s *DetectionService) CreatePreview(ctx context.Context, garageID string, image []byte, anns []layout.Annotation) (entities.PreviewResponse, error) {
	anns, err := layout.ValidateAnnotations(anns)
	if err != nil {
		return entities.PreviewResponse{}, err
	}
	png, err := normalizePNG(image)
	if err != nil {
		return entities.PreviewResponse{}, err
	}

	resp, anns, err := s.detector.Detect(ctx, png, anns)
	if err != nil {
		s.logger.Error("detection call failed", "garage", garageID, "err", err)
		return entities.PreviewResponse{}, err
	}
	l, err := layout.FromDetection(resp)
	if err != nil {
		s.logger.Warn("detection response rejected", "garage", garageID, "err", err)
		return entities.PreviewResponse{}, err
	}

	now := s.now()
	l.LastUpdated = now
	p := repository.Preview{
		ID:          uuid.NewString(),
		GarageID:    garageID,
		Layout:      l,
		Annotations: anns,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if url, err := s.blobs.Save(ctx, "detection/"+garageID+"/"+p.ID+".png", png); err != nil {
		s.logger.Warn("could not keep detection image", "garage", garageID, "preview", p.ID, "err", err)
	} else {
		p.ImageURL = url
	}
	if err := s.previews.Put(ctx, p, s.ttl); err != nil {
		s.logger.Error("failed to store preview", "garage", garageID, "err", err)
		return entities.PreviewResponse{}, err
	}
	s.logger.Info("detection preview stored", "garage", garageID, "preview", p.ID, "slots", l.Counts().Total)
	return toPreviewResponse(p), nil
}

func (s *DetectionService) GetPreview(ctx context.Context, garageID, previewID string) (entities.PreviewResponse, error) {
	p, err := s.previews.Get(ctx, garageID, previewID)
	if err != nil {
		return entities.PreviewResponse{}, err
	}
	return toPreviewResponse(p), nil
}

// AdoptPreview saves the preview's layout as the garage layout and drops
// the preview.
func (s *DetectionService) AdoptPreview(ctx context.Context, garageID, previewID string) (layout.GarageLayout, error) {
	p, err := s.previews.Get(ctx, garageID, previewID)
	if err != nil {
		return layout.GarageLayout{}, err
	}
	saved, err := s.layouts.Save(ctx, garageID, p.Layout)
	if err != nil {
		return layout.GarageLayout{}, err
	}
	if err := s.previews.Delete(ctx, garageID, previewID); err != nil && !apperrors.Is(err, apperrors.CodeNotFound) {
		s.logger.Warn("adopted preview not deleted", "garage", garageID, "preview", previewID, "err", err)
	}
	return saved, nil
}

func (s *DetectionService) DiscardPreview(ctx context.Context, garageID, previewID string) error {
	return s.previews.Delete(ctx, garageID, previewID)
}

// normalizePNG decodes any supported image format, applies EXIF
// orientation and re-encodes it as PNG at its original size.
func normalizePNG(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "image is required")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err, "image could not be decoded")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode image")
	}
	return buf.Bytes(), nil
}

func toPreviewResponse(p repository.Preview) entities.PreviewResponse {
	return entities.PreviewResponse{
		PreviewID:   p.ID,
		Layout:      p.Layout,
		Counts:      p.Layout.Counts(),
		Annotations: p.Annotations,
		ImageURL:    p.ImageURL,
		ExpiresAt:   p.ExpiresAt,
	}
}
