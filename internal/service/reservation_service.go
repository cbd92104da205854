package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"garagy/internal/db"
	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
	"garagy/internal/repository"
	"garagy/internal/utils"
)

// ReservationService handles manual reservations made by an admin on a
// slot, and the lookup of whoever holds one.
type ReservationService struct {
	layouts   *LayoutService
	occupants *repository.OccupantRepository
	notifier  Notifier
	logger    *log.Logger
}

func NewReservationService(layouts *LayoutService, occupants *repository.OccupantRepository, notifier Notifier, logger *log.Logger) *ReservationService {
	return &ReservationService{layouts: layouts, occupants: occupants, notifier: notifier, logger: logger}
}

// Reserve marks an available slot reserved for the occupant and persists
// it. Unless req.Notify is false the occupant is told by email and SMS in
// the background. A slot that is already taken yields a CONFLICT naming
// the current occupant.
func (s *ReservationService) Reserve(ctx context.Context, garageID, slotID string, req entities.ReserveRequest) (entities.SlotResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return entities.SlotResponse{}, err
	}
	var sectionName string
	resp, err := s.layouts.mutate(ctx, garageID, func(l *layout.GarageLayout) (layout.Slot, error) {
		if _, sec, err := l.FindSlot(slotID); err == nil {
			sectionName = sec.Name
		}
		return l.Reserve(slotID, req.OccupantID)
	})
	if apperrors.Is(err, apperrors.CodeConflict) && resp.Slot.ReservedOccupant != "" {
		return resp, apperrors.Wrap(apperrors.CodeConflict, err, "slot %s is already reserved by %s", slotID, resp.Slot.ReservedOccupant)
	}
	if err != nil {
		return resp, err
	}

	s.logger.Info("slot reserved", "garage", garageID, "slot", slotID, "occupant", resp.Slot.ReservedOccupant)
	if req.Notify == nil || *req.Notify {
		go s.notify(context.WithoutCancel(ctx), resp.Slot, sectionName)
	}
	return resp, nil
}

// Release returns the slot to available whatever its state.
func (s *ReservationService) Release(ctx context.Context, garageID, slotID string) (entities.SlotResponse, error) {
	return s.layouts.mutate(ctx, garageID, func(l *layout.GarageLayout) (layout.Slot, error) {
		return l.Release(slotID)
	})
}

// LookupOccupant resolves who holds a slot. Store failures are reported in
// the result rather than as an error, so the admin UI can show them inline.
func (s *ReservationService) LookupOccupant(ctx context.Context, garageID, slotID string) (entities.OccupantLookup, error) {
	l, err := s.layouts.load(ctx, garageID)
	if err != nil {
		return entities.OccupantLookup{}, err
	}
	slot, _, err := l.FindSlot(slotID)
	if err != nil {
		return entities.OccupantLookup{}, err
	}
	out := entities.OccupantLookup{SlotID: slotID, OccupantID: slot.ReservedOccupant}
	if slot.ReservedOccupant == "" {
		out.Status = entities.LookupNotFound
		out.Message = "slot has no recorded occupant"
		return out, nil
	}

	user, err := s.occupants.GetOccupant(ctx, slot.ReservedOccupant)
	switch {
	case apperrors.Is(err, apperrors.CodeNotFound):
		out.Status = entities.LookupNotFound
		out.Message = "occupant record not found"
	case err != nil:
		s.logger.Error("occupant lookup failed", "garage", garageID, "slot", slotID, "err", err)
		out.Status = entities.LookupError
		out.Message = "could not load occupant details"
	default:
		out.Status = entities.LookupFound
		out.Occupant = &entities.OccupantInfo{
			Name:  user.PersonalInfo.Name,
			Email: user.PersonalInfo.Email,
			Phone: user.PersonalInfo.PhoneNumber,
		}
	}
	return out, nil
}

func (s *ReservationService) notify(ctx context.Context, slot layout.Slot, sectionName string) {
	if s.notifier == nil {
		return
	}
	user, err := s.occupants.GetOccupant(ctx, slot.ReservedOccupant)
	if err != nil {
		s.logger.Warn("reservation notice skipped: occupant not loaded", "occupant", slot.ReservedOccupant, "err", err)
		return
	}
	now := time.Now()
	s.notifier.NotifyReservation(ctx, *user, entities.ReservationEmailData{
		UserName:    user.PersonalInfo.Name,
		SectionName: sectionName,
		SlotID:      slot.ID,
		ReservedAt:  now.Format("02 Jan 2006 15:04 MST"),
		CurrentYear: now.Year(),
	})
}

// Notifier tells an occupant about a reservation made on their behalf.
type Notifier interface {
	NotifyReservation(ctx context.Context, user db.User, data entities.ReservationEmailData)
}
