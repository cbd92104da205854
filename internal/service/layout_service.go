package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
	"garagy/internal/repository"
	"garagy/internal/utils"
)

// LayoutService runs the layout editor against one garage at a time. The
// garage id always comes from the caller's identity.
//
// Generate and Resize return drafts that are only persisted by Save. Slot
// status changes are persisted immediately.
type LayoutService struct {
	garages   *repository.GarageRepository
	gen       layout.IDGenerator
	emergency bool
	logger    *log.Logger
	locks     *garageLocks
	now       func() time.Time
}

func NewLayoutService(garages *repository.GarageRepository, gen layout.IDGenerator, emergency bool, logger *log.Logger) *LayoutService {
	return &LayoutService{
		garages:   garages,
		gen:       gen,
		emergency: emergency,
		logger:    logger,
		locks:     newGarageLocks(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Editor loads what the editor opens with: the persisted layout and its
// configuration in edit mode, or the default configuration in create mode.
func (s *LayoutService) Editor(ctx context.Context, garageID string) (entities.EditorResponse, error) {
	l, found, err := s.garages.GetLayout(ctx, garageID)
	if err != nil {
		s.logger.Error("failed to load layout", "garage", garageID, "err", err)
		return entities.EditorResponse{}, err
	}
	if !found {
		return entities.EditorResponse{
			Mode:          entities.ModeCreate,
			Configuration: layout.DefaultConfiguration(),
			Emergency:     s.emergency,
		}, nil
	}
	return entities.EditorResponse{
		Mode:          entities.ModeEdit,
		Configuration: layout.ConfigurationFrom(l),
		Emergency:     hasEmergency(l),
		Layout:        &l,
	}, nil
}

// EditConfiguration applies a section count change and then a slot count
// change to cfg. Values are clamped, never rejected.
func (s *LayoutService) EditConfiguration(req entities.ConfigurationEditRequest) layout.Configuration {
	cfg := req.Configuration
	cfg.Normalize()
	if req.SectionCount != nil {
		cfg.SetSectionCount(*req.SectionCount)
	}
	if req.Slot != nil {
		cfg.SetSlotCount(req.Slot.Index, req.Slot.Value)
	}
	return cfg
}

// Generate builds a fresh draft with new slot ids everywhere.
func (s *LayoutService) Generate(ctx context.Context, garageID string, req entities.GenerateRequest) (layout.GarageLayout, error) {
	if err := validateConfiguration(req.Configuration); err != nil {
		return layout.GarageLayout{}, err
	}
	l, err := layout.Generate(req.Configuration, s.options(req.Emergency), s.gen)
	if err != nil {
		return layout.GarageLayout{}, err
	}
	s.logger.Debug("generated draft layout", "garage", garageID, "sections", l.SectionCount)
	return l, nil
}

// Resize builds a draft from the persisted layout that keeps every slot
// the new configuration still has room for.
func (s *LayoutService) Resize(ctx context.Context, garageID string, req entities.GenerateRequest) (layout.GarageLayout, error) {
	if err := validateConfiguration(req.Configuration); err != nil {
		return layout.GarageLayout{}, err
	}
	current, _, err := s.garages.GetLayout(ctx, garageID)
	if err != nil {
		s.logger.Error("failed to load layout", "garage", garageID, "err", err)
		return layout.GarageLayout{}, err
	}
	return layout.Resize(current, req.Configuration, s.options(req.Emergency), s.gen)
}

// Save validates and persists a draft, stamping lastUpdated. The last
// writer wins.
func (s *LayoutService) Save(ctx context.Context, garageID string, l layout.GarageLayout) (layout.GarageLayout, error) {
	if err := l.Validate(); err != nil {
		return layout.GarageLayout{}, err
	}
	defer s.locks.lock(garageID)()

	l.LastUpdated = s.now()
	if err := s.garages.SaveLayout(ctx, garageID, l); err != nil {
		s.logger.Error("failed to save layout", "garage", garageID, "err", err)
		return layout.GarageLayout{}, err
	}
	s.logger.Info("layout saved", "garage", garageID, "sections", l.SectionCount, "slots", l.Counts().Total)
	return l, nil
}

// Current returns the persisted layout with its counts.
func (s *LayoutService) Current(ctx context.Context, garageID string) (entities.LayoutResponse, error) {
	l, err := s.load(ctx, garageID)
	if err != nil {
		return entities.LayoutResponse{}, err
	}
	return entities.LayoutResponse{Layout: l, Counts: l.Counts()}, nil
}

func (s *LayoutService) Toggle(ctx context.Context, garageID, slotID string) (entities.SlotResponse, error) {
	return s.mutate(ctx, garageID, func(l *layout.GarageLayout) (layout.Slot, error) {
		return l.Toggle(slotID)
	})
}

// mutate applies fn to the persisted layout and saves the result. Nothing
// is written when fn or the load fails.
func (s *LayoutService) mutate(ctx context.Context, garageID string, fn func(*layout.GarageLayout) (layout.Slot, error)) (entities.SlotResponse, error) {
	defer s.locks.lock(garageID)()

	l, err := s.load(ctx, garageID)
	if err != nil {
		return entities.SlotResponse{}, err
	}
	slot, err := fn(&l)
	if err != nil {
		return entities.SlotResponse{Slot: slot}, err
	}
	l.LastUpdated = s.now()
	if err := s.garages.SaveLayout(ctx, garageID, l); err != nil {
		s.logger.Error("failed to persist slot change", "garage", garageID, "slot", slot.ID, "err", err)
		return entities.SlotResponse{}, err
	}
	return entities.SlotResponse{Slot: slot, Counts: l.Counts()}, nil
}

func (s *LayoutService) load(ctx context.Context, garageID string) (layout.GarageLayout, error) {
	l, found, err := s.garages.GetLayout(ctx, garageID)
	if err != nil {
		s.logger.Error("failed to load layout", "garage", garageID, "err", err)
		return layout.GarageLayout{}, err
	}
	if !found {
		return layout.GarageLayout{}, apperrors.New(apperrors.CodeNotFound, "garage has no layout yet")
	}
	return l, nil
}

func (s *LayoutService) options(emergency *bool) layout.Options {
	if emergency != nil {
		return layout.Options{Emergency: *emergency}
	}
	return layout.Options{Emergency: s.emergency}
}

func validateConfiguration(cfg layout.Configuration) error {
	if err := utils.ValidateStruct(cfg); err != nil {
		return err
	}
	if len(cfg.SectionSlots) != cfg.SectionCount {
		return apperrors.New(apperrors.CodeInvalidInput, "sectionSlots must have sectionCount entries")
	}
	return nil
}

func hasEmergency(l layout.GarageLayout) bool {
	for _, sec := range l.Sections {
		if sec.IsEmergency {
			return true
		}
	}
	return false
}
