package layout

// Resize reshapes current to match cfg without losing slot identity.
//
// Regular sections are matched by ordinal. A retained section keeps its
// leading slots (id, status and occupant) up to the new count; missing slots
// are appended fresh and surplus slots are dropped from the tail. Sections
// beyond the new count are dropped from the tail. With opts.Emergency the
// existing emergency section is carried over as is, or created when absent;
// without it the emergency section is dropped.
//
// current is not modified. LastUpdated is carried over; stamping it is the
// job of whoever persists the result.
func Resize(current GarageLayout, cfg Configuration, opts Options, gen IDGenerator) (GarageLayout, error) {
	cfg.Normalize()
	regular, emergency := current.split()

	// Ids of dropped slots stay reserved too, so a resize never hands an
	// old id to a new slot.
	taken := make(map[string]struct{})
	for _, sec := range current.Sections {
		for _, s := range sec.Slots {
			taken[s.ID] = struct{}{}
		}
	}

	sections := make([]Section, 0, cfg.SectionCount+1)
	for i, want := range cfg.SectionSlots {
		id := SectionID(i)
		slots := make([]Slot, 0, want)
		if i < len(regular) {
			kept := regular[i].Slots
			slots = append(slots, kept[:min(len(kept), want)]...)
		}
		for len(slots) < want {
			sid, err := freshID(gen, taken)
			if err != nil {
				return GarageLayout{}, err
			}
			slots = append(slots, Slot{ID: sid, Status: StatusAvailable})
		}
		sections = append(sections, Section{ID: id, Name: SectionName(id), Slots: slots})
	}

	if opts.Emergency {
		if emergency != nil {
			sec := *emergency
			sec.Slots = append([]Slot(nil), emergency.Slots...)
			sections = append(sections, sec)
		} else {
			sec, err := emergencySection(gen, taken)
			if err != nil {
				return GarageLayout{}, err
			}
			sections = append(sections, sec)
		}
	}

	return GarageLayout{
		Sections:     sections,
		SectionCount: cfg.SectionCount,
		LastUpdated:  current.LastUpdated,
	}, nil
}
