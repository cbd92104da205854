// Package layout holds the garage layout model: sections of parking slots,
// their generation from an editor configuration, identity-preserving resize,
// the slot status machine and the adapter for vision detection results.
//
// Everything in this package is synchronous and in-memory. Persistence and
// remote calls live in the repository, detection and service packages.
package layout

import "time"

// Status is the occupancy state of a slot.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusReserved    Status = "reserved"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusReserved:
		return true
	}
	return false
}

type Slot struct {
	ID               string `json:"id"`
	Status           Status `json:"status"`
	ReservedOccupant string `json:"reservedOccupant,omitempty"`
}

type Section struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsEmergency bool   `json:"isEmergency,omitempty"`
	Slots       []Slot `json:"slots"`
}

// GarageLayout is the persisted shape of a garage: regular sections in
// configuration order, optionally followed by a single emergency section.
type GarageLayout struct {
	Sections     []Section `json:"sections"`
	SectionCount int       `json:"sectionCount"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Counts summarises slot statuses across a layout.
type Counts struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Reserved    int `json:"reserved"`
}

// Counts tallies every slot, emergency section included.
func (l GarageLayout) Counts() Counts {
	var c Counts
	for _, sec := range l.Sections {
		for _, s := range sec.Slots {
			c.Total++
			switch s.Status {
			case StatusAvailable:
				c.Available++
			case StatusUnavailable:
				c.Unavailable++
			case StatusReserved:
				c.Reserved++
			}
		}
	}
	return c
}

// Empty reports whether the layout has no sections at all.
func (l GarageLayout) Empty() bool {
	return len(l.Sections) == 0
}

// Clone returns a deep copy, so callers can mutate slots without touching l.
func (l GarageLayout) Clone() GarageLayout {
	out := l
	out.Sections = make([]Section, len(l.Sections))
	for i, sec := range l.Sections {
		sec.Slots = append([]Slot(nil), sec.Slots...)
		out.Sections[i] = sec
	}
	return out
}

// split returns the regular sections and the emergency section, if any.
func (l GarageLayout) split() ([]Section, *Section) {
	var regular []Section
	var emergency *Section
	for i := range l.Sections {
		if l.Sections[i].IsEmergency {
			emergency = &l.Sections[i]
			continue
		}
		regular = append(regular, l.Sections[i])
	}
	return regular, emergency
}
