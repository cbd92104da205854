package layout

import (
	"strings"

	apperrors "garagy/internal/errors"
)

// FindSlot returns a pointer to the slot with the given id and its section.
func (l *GarageLayout) FindSlot(slotID string) (*Slot, *Section, error) {
	for i := range l.Sections {
		sec := &l.Sections[i]
		for j := range sec.Slots {
			if sec.Slots[j].ID == slotID {
				return &sec.Slots[j], sec, nil
			}
		}
	}
	return nil, nil, apperrors.New(apperrors.CodeNotFound, "slot %q not found", slotID)
}

// Toggle flips a slot between available and unavailable. Reserved slots are
// not toggled; they go back through Release.
func (l *GarageLayout) Toggle(slotID string) (Slot, error) {
	s, _, err := l.FindSlot(slotID)
	if err != nil {
		return Slot{}, err
	}
	switch s.Status {
	case StatusAvailable:
		s.Status = StatusUnavailable
	case StatusUnavailable:
		s.Status = StatusAvailable
		s.ReservedOccupant = ""
	default:
		return *s, apperrors.New(apperrors.CodeConflict, "slot %q is %s; release it instead of toggling", slotID, s.Status)
	}
	return *s, nil
}

// Reserve marks an available slot reserved for occupantID. For any other
// status it returns a conflict together with the slot as it stands, so the
// caller can look up the recorded occupant instead.
func (l *GarageLayout) Reserve(slotID, occupantID string) (Slot, error) {
	occupantID = strings.TrimSpace(occupantID)
	if occupantID == "" {
		return Slot{}, apperrors.New(apperrors.CodeInvalidInput, "occupant id is required")
	}
	s, _, err := l.FindSlot(slotID)
	if err != nil {
		return Slot{}, err
	}
	if s.Status != StatusAvailable {
		return *s, apperrors.New(apperrors.CodeConflict, "slot %q is %s", slotID, s.Status)
	}
	s.Status = StatusReserved
	s.ReservedOccupant = occupantID
	return *s, nil
}

// Release returns any slot to available and forgets its occupant.
// Releasing an available slot is a no-op.
func (l *GarageLayout) Release(slotID string) (Slot, error) {
	s, _, err := l.FindSlot(slotID)
	if err != nil {
		return Slot{}, err
	}
	s.Status = StatusAvailable
	s.ReservedOccupant = ""
	return *s, nil
}
