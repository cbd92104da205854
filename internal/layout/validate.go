package layout

import (
	apperrors "garagy/internal/errors"
)

// Validate checks the structural invariants of a persisted layout. It is run
// on everything decoded from the store and on every layout before a save.
func (l GarageLayout) Validate() error {
	if len(l.Sections) == 0 {
		return apperrors.New(apperrors.CodeDataShape, "layout has no sections")
	}

	regular := 0
	seen := make(map[string]struct{})
	for i, sec := range l.Sections {
		if sec.IsEmergency {
			if i != len(l.Sections)-1 {
				return apperrors.New(apperrors.CodeDataShape, "emergency section must be the last section")
			}
		} else {
			regular++
		}
		if sec.ID == "" {
			return apperrors.New(apperrors.CodeDataShape, "section %d has no id", i)
		}
		if len(sec.Slots) == 0 {
			return apperrors.New(apperrors.CodeDataShape, "section %s has no slots", sec.ID)
		}
		if !sec.IsEmergency && len(sec.Slots) > MaxSlotsPerSection {
			return apperrors.New(apperrors.CodeDataShape, "section %s has %d slots, at most %d are allowed", sec.ID, len(sec.Slots), MaxSlotsPerSection)
		}
		for _, s := range sec.Slots {
			if s.ID == "" {
				return apperrors.New(apperrors.CodeDataShape, "section %s has a slot without id", sec.ID)
			}
			if _, dup := seen[s.ID]; dup {
				return apperrors.New(apperrors.CodeDataShape, "duplicate slot id %q", s.ID)
			}
			seen[s.ID] = struct{}{}
			if !s.Status.Valid() {
				return apperrors.New(apperrors.CodeDataShape, "slot %q has unknown status %q", s.ID, s.Status)
			}
			if s.Status == StatusAvailable && s.ReservedOccupant != "" {
				return apperrors.New(apperrors.CodeDataShape, "available slot %q carries an occupant", s.ID)
			}
		}
	}

	if regular > MaxSections {
		return apperrors.New(apperrors.CodeDataShape, "layout has %d sections, at most %d are allowed", regular, MaxSections)
	}
	if l.SectionCount != regular {
		return apperrors.New(apperrors.CodeDataShape, "sectionCount %d does not match %d regular sections", l.SectionCount, regular)
	}
	return nil
}
