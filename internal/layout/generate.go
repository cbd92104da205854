package layout

// SectionID returns the letter id for the section at ordinal i (0-based).
// Ids follow spreadsheet columns: A..Z, then AA, AB, ... ZZ, then AAA.
func SectionID(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func SectionName(id string) string {
	return "Section " + id
}

// Generate builds a fresh layout from cfg. Every slot gets a new id from gen
// and starts available; nothing from any earlier layout is reused.
func Generate(cfg Configuration, opts Options, gen IDGenerator) (GarageLayout, error) {
	cfg.Normalize()
	taken := make(map[string]struct{})

	sections := make([]Section, 0, cfg.SectionCount+1)
	for i, n := range cfg.SectionSlots {
		slots, err := newSlots(n, gen, taken)
		if err != nil {
			return GarageLayout{}, err
		}
		id := SectionID(i)
		sections = append(sections, Section{ID: id, Name: SectionName(id), Slots: slots})
	}

	if opts.Emergency {
		sec, err := emergencySection(gen, taken)
		if err != nil {
			return GarageLayout{}, err
		}
		sections = append(sections, sec)
	}

	return GarageLayout{Sections: sections, SectionCount: cfg.SectionCount}, nil
}

func emergencySection(gen IDGenerator, taken map[string]struct{}) (Section, error) {
	slots, err := newSlots(EmergencySlots, gen, taken)
	if err != nil {
		return Section{}, err
	}
	return Section{
		ID:          EmergencySectionID,
		Name:        EmergencySectionName,
		IsEmergency: true,
		Slots:       slots,
	}, nil
}
