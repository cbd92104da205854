package db

import "time"

// Collection names in the document store.
const (
	CollectionAdmins     = "admins"
	CollectionGarages    = "garages"
	CollectionUsers      = "users"
	CollectionGateEvents = "gate_events"
	CollectionSnapshots  = "snapshots"
)

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	GarageID     string    `json:"garageId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Garage is the garage document without its layout, which is read and
// written on its own through the "layout" field.
type Garage struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	HourlyRate  float64   `json:"hourlyRate,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Pictures    []string  `json:"pictures,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type PersonalInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// User is a parking customer; a reserved slot records the user id as its
// occupant.
type User struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
}

type GateEvent struct {
	ID        string    `json:"id"`
	GarageID  string    `json:"garageId"`
	Direction string    `json:"direction"`
	Plate     string    `json:"plate"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type OccupancySnapshot struct {
	ID          string    `json:"id"`
	GarageID    string    `json:"garageId"`
	Total       int       `json:"total"`
	Available   int       `json:"available"`
	Unavailable int       `json:"unavailable"`
	Reserved    int       `json:"reserved"`
	CreatedAt   time.Time `json:"createdAt"`
}
