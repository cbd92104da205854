package layout

import "slices"

const (
	MaxSections        = 20
	MaxSlotsPerSection = 50

	EmergencySectionID   = "E"
	EmergencySectionName = "Emergency Section"
	EmergencySlots       = 5
)

// Configuration is the editor-side description of a layout: how many regular
// sections there are and how many slots each one holds.
type Configuration struct {
	SectionCount int   `json:"sectionCount" validate:"min=1,max=20"`
	SectionSlots []int `json:"sectionSlots" validate:"required,max=20,dive,min=1,max=50"`
}

// Options toggles generation features that are not part of the per-section
// configuration.
type Options struct {
	Emergency bool
}

func DefaultConfiguration() Configuration {
	return Configuration{SectionCount: 1, SectionSlots: []int{1}}
}

// ConfigurationFrom rebuilds the editor configuration from a persisted
// layout. The emergency section is not part of the configuration.
func ConfigurationFrom(l GarageLayout) Configuration {
	regular, _ := l.split()
	if len(regular) == 0 {
		return DefaultConfiguration()
	}
	cfg := Configuration{SectionSlots: make([]int, 0, len(regular))}
	for _, sec := range regular {
		cfg.SectionSlots = append(cfg.SectionSlots, len(sec.Slots))
	}
	cfg.SectionCount = len(cfg.SectionSlots)
	cfg.Normalize()
	return cfg
}

// SetSectionCount clamps n to [1, MaxSections] and grows or truncates
// SectionSlots to match. New entries default to one slot; retained entries
// keep their value and order.
func (c *Configuration) SetSectionCount(n int) {
	n = clamp(n, 1, MaxSections)
	slots := slices.Clone(c.SectionSlots)
	if n < len(slots) {
		slots = slots[:n]
	}
	for len(slots) < n {
		slots = append(slots, 1)
	}
	c.SectionCount = n
	c.SectionSlots = slots
}

// SetSlotCount clamps value to [1, MaxSlotsPerSection] and stores it at
// index. Out of range indexes are ignored.
func (c *Configuration) SetSlotCount(index, value int) {
	if index < 0 || index >= len(c.SectionSlots) {
		return
	}
	c.SectionSlots[index] = clamp(value, 1, MaxSlotsPerSection)
}

// Normalize reconciles SectionSlots with SectionCount and clamps every entry.
func (c *Configuration) Normalize() {
	c.SetSectionCount(c.SectionCount)
	for i, v := range c.SectionSlots {
		c.SectionSlots[i] = clamp(v, 1, MaxSlotsPerSection)
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
