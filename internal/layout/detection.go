package layout

import (
	"fmt"
	"strings"

	apperrors "garagy/internal/errors"
)

// MinPolygonPoints is the fewest points an annotation may have.
const MinPolygonPoints = 3

// Point is an x,y coordinate on the annotated image, encoded as [x, y].
type Point [2]float64

// Annotation is a user-drawn polygon outlining one parking slot.
type Annotation struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
}

// ValidateAnnotations rejects empty sets and polygons with fewer than
// MinPolygonPoints points. Unnamed annotations are named slot_<n> after their
// position; the returned slice is a copy.
func ValidateAnnotations(anns []Annotation) ([]Annotation, error) {
	if len(anns) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "define at least one slot")
	}
	out := make([]Annotation, len(anns))
	seen := make(map[string]struct{}, len(anns))
	for i, a := range anns {
		if len(a.Points) < MinPolygonPoints {
			return nil, apperrors.New(apperrors.CodeInvalidInput,
				"slot %d has %d points; at least %d are required", i+1, len(a.Points), MinPolygonPoints)
		}
		a.ID = strings.TrimSpace(a.ID)
		if a.ID == "" {
			a.ID = fmt.Sprintf("slot_%d", i+1)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "duplicate slot id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
		a.Points = append([]Point(nil), a.Points...)
		out[i] = a
	}
	return out, nil
}

// DetectionResponse is the body returned by the detection endpoint. It holds
// either pre-partitioned sections or a flat list of slots.
type DetectionResponse struct {
	Sections []DetectedSection `json:"sections,omitempty"`
	Slots    []DetectedSlot    `json:"slots,omitempty"`
}

type DetectedSection struct {
	ID    string                `json:"id"`
	Name  string                `json:"name"`
	Slots []DetectedSectionSlot `json:"slots"`
}

type DetectedSectionSlot struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type DetectedSlot struct {
	SlotID string `json:"slot_id"`
	Status string `json:"status"`
}

// Detected statuses reported by the endpoint.
const (
	DetectedFree     = "free"
	DetectedOccupied = "occupied"
)

// MapDetectedStatus maps free to available and occupied to unavailable. Any
// other value is a data error.
func MapDetectedStatus(s string) (Status, error) {
	switch s {
	case DetectedFree:
		return StatusAvailable, nil
	case DetectedOccupied:
		return StatusUnavailable, nil
	}
	return "", apperrors.New(apperrors.CodeDataShape, "unrecognized detection status %q", s)
}

// FromDetection converts a detection response into a layout preview. A flat
// slot list is wrapped in a single section A in the order reported.
func FromDetection(resp DetectionResponse) (GarageLayout, error) {
	sections := resp.Sections
	if sections == nil {
		if resp.Slots == nil {
			return GarageLayout{}, apperrors.New(apperrors.CodeDataShape, "detection response has neither sections nor slots")
		}
		flat := DetectedSection{ID: SectionID(0), Name: SectionName(SectionID(0))}
		for _, s := range resp.Slots {
			flat.Slots = append(flat.Slots, DetectedSectionSlot{ID: s.SlotID, Status: s.Status})
		}
		sections = []DetectedSection{flat}
	}
	if len(sections) == 0 {
		return GarageLayout{}, apperrors.New(apperrors.CodeDataShape, "detection response has no sections")
	}

	out := GarageLayout{Sections: make([]Section, 0, len(sections))}
	seen := make(map[string]struct{})
	for i, ds := range sections {
		sec := Section{ID: strings.TrimSpace(ds.ID), Name: ds.Name}
		if sec.ID == "" {
			sec.ID = SectionID(i)
		}
		if sec.Name == "" {
			sec.Name = SectionName(sec.ID)
		}
		if len(ds.Slots) == 0 {
			return GarageLayout{}, apperrors.New(apperrors.CodeDataShape, "detected section %s has no slots", sec.ID)
		}
		for _, dslot := range ds.Slots {
			if dslot.ID == "" {
				return GarageLayout{}, apperrors.New(apperrors.CodeDataShape, "detected slot in section %s has no id", sec.ID)
			}
			if _, dup := seen[dslot.ID]; dup {
				return GarageLayout{}, apperrors.New(apperrors.CodeDataShape, "duplicate detected slot id %q", dslot.ID)
			}
			seen[dslot.ID] = struct{}{}
			status, err := MapDetectedStatus(dslot.Status)
			if err != nil {
				return GarageLayout{}, err
			}
			sec.Slots = append(sec.Slots, Slot{ID: dslot.ID, Status: status})
		}
		out.Sections = append(out.Sections, sec)
	}
	out.SectionCount = len(out.Sections)
	if err := out.Validate(); err != nil {
		return GarageLayout{}, err
	}
	return out, nil
}
