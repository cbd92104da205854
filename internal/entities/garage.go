package entities

const MaxGaragePictures = 4

// GarageProfileRequest replaces the descriptive fields of the caller's
// garage. Pointers tell a missing number apart from zero.
type GarageProfileRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description" validate:"required,max=2000"`
	HourlyRate  *float64 `json:"hourlyRate" validate:"required,gt=0"`
	Address     string   `json:"address" validate:"required,max=300"`
	Lat         *float64 `json:"lat" validate:"required,latitude"`
	Lng         *float64 `json:"lng" validate:"required,longitude"`
	Pictures    []string `json:"pictures" validate:"max=4,dive,http_url"`
}
