package entities

// ReservationEmailData feeds the reservation notice sent to an occupant
// when an admin reserves a slot for them.
type ReservationEmailData struct {
	UserName    string
	GarageName  string
	SectionName string
	SlotID      string
	ReservedAt  string
	CurrentYear int
}
