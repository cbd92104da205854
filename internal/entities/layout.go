package entities

import "garagy/internal/layout"

// Editor modes.
const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// EditorResponse opens the layout editor. Layout is nil in create mode.
type EditorResponse struct {
	Mode          string               `json:"mode"`
	Configuration layout.Configuration `json:"configuration"`
	Emergency     bool                 `json:"emergency"`
	Layout        *layout.GarageLayout `json:"layout"`
}

type LayoutResponse struct {
	Layout layout.GarageLayout `json:"layout"`
	Counts layout.Counts       `json:"counts"`
}

type SlotEdit struct {
	Index int `json:"index" validate:"min=0"`
	Value int `json:"value"`
}

// ConfigurationEditRequest applies editor edits to a configuration. The
// section count is applied before the slot edit.
type ConfigurationEditRequest struct {
	Configuration layout.Configuration `json:"configuration"`
	SectionCount  *int                 `json:"sectionCount,omitempty"`
	Slot          *SlotEdit            `json:"slot,omitempty"`
}

// GenerateRequest builds a draft layout. Emergency defaults to the server
// setting when omitted.
type GenerateRequest struct {
	Configuration layout.Configuration `json:"configuration"`
	Emergency     *bool                `json:"emergency,omitempty"`
}

// SaveLayoutRequest is the body of PUT /api/admin/layout.
type SaveLayoutRequest struct {
	Layout layout.GarageLayout `json:"layout"`
}

type ReserveRequest struct {
	OccupantID string `json:"occupantId" validate:"required"`
	Notify     *bool  `json:"notify,omitempty"`
}

type SlotResponse struct {
	Slot   layout.Slot   `json:"slot"`
	Counts layout.Counts `json:"counts"`
}

// Occupant lookup results.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

type OccupantInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OccupantLookup struct {
	Status     string        `json:"status"`
	SlotID     string        `json:"slotId"`
	OccupantID string        `json:"occupantId,omitempty"`
	Occupant   *OccupantInfo `json:"occupant,omitempty"`
	Message    string        `json:"message,omitempty"`
}
