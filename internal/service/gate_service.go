package service

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"garagy/internal/db"
	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/repository"
	"garagy/internal/utils"
)

// maxGateImageSide bounds the photo sent to the plate classifier.
const maxGateImageSide = 1280

// PlateRecognizer reads the licence plate in a vehicle photo.
type PlateRecognizer interface {
	Recognize(ctx context.Context, image []byte, filename string) (string, error)
}

// GateService records vehicles scanned at a garage's entry and exit gates.
type GateService struct {
	plates PlateRecognizer
	blobs  repository.BlobStore
	gates  *repository.GateRepository
	logger *log.Logger
	now    func() time.Time
}

func NewGateService(plates PlateRecognizer, blobs repository.BlobStore, gates *repository.GateRepository, logger *log.Logger) *GateService {
	return &GateService{
		plates: plates,
		blobs:  blobs,
		gates:  gates,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Scan stores the photo, reads its plate and records a gate event.
func (s *GateService) Scan(ctx context.Context, garageID, direction string, image []byte) (db.GateEvent, error) {
	if direction != entities.DirectionEntry && direction != entities.DirectionExit {
		return db.GateEvent{}, apperrors.New(apperrors.CodeInvalidInput, "direction must be %q or %q", entities.DirectionEntry, entities.DirectionExit)
	}
	if len(image) == 0 {
		return db.GateEvent{}, apperrors.New(apperrors.CodeInvalidInput, "image is required")
	}
	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return db.GateEvent{}, apperrors.Wrap(apperrors.CodeInvalidInput, err, "image could not be decoded")
	}
	img = imaging.Fit(img, maxGateImageSide, maxGateImageSide, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return db.GateEvent{}, apperrors.Wrap(apperrors.CodeInternal, err, "encode image")
	}

	event := db.GateEvent{
		ID:        uuid.NewString(),
		GarageID:  garageID,
		Direction: direction,
		CreatedAt: s.now(),
	}
	url, err := s.blobs.Save(ctx, "gate/"+garageID+"/"+event.ID+".jpg", buf.Bytes())
	if err != nil {
		s.logger.Error("failed to store gate image", "garage", garageID, "err", err)
		return db.GateEvent{}, err
	}
	event.ImageURL = url

	plate, err := s.plates.Recognize(ctx, buf.Bytes(), event.ID+".jpg")
	if err != nil {
		s.logger.Error("plate recognition failed", "garage", garageID, "direction", direction, "err", err)
		return db.GateEvent{}, err
	}
	event.Plate = utils.NormalizePlate(plate)

	if err := s.gates.InsertEvent(ctx, event); err != nil {
		s.logger.Error("failed to record gate event", "garage", garageID, "err", err)
		return db.GateEvent{}, err
	}
	s.logger.Info("vehicle scanned", "garage", garageID, "direction", direction, "plate", event.Plate)
	return event, nil
}

func (s *GateService) Events(ctx context.Context, garageID string, limit int) ([]db.GateEvent, error) {
	return s.gates.ListEvents(ctx, garageID, limit)
}
