package service

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"garagy/internal/db"
	"garagy/internal/entities"
	"garagy/internal/repository"
	"garagy/internal/utils"
)

// GarageService reads and edits the garage profile shown to customers.
type GarageService struct {
	garages *repository.GarageRepository
	logger  *log.Logger
}

func NewGarageService(garages *repository.GarageRepository, logger *log.Logger) *GarageService {
	return &GarageService{garages: garages, logger: logger}
}

func (s *GarageService) Profile(ctx context.Context, garageID string) (*db.Garage, error) {
	return s.garages.GetGarage(ctx, garageID)
}

// UpdateProfile trims the request, drops blank picture URLs and stores the
// result. The layout is not touched.
func (s *GarageService) UpdateProfile(ctx context.Context, garageID string, req entities.GarageProfileRequest) (*db.Garage, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Address = strings.TrimSpace(req.Address)
	pictures := make([]string, 0, len(req.Pictures))
	for _, p := range req.Pictures {
		if p = strings.TrimSpace(p); p != "" {
			pictures = append(pictures, p)
		}
	}
	req.Pictures = pictures
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	profile := db.Garage{
		Name:        req.Name,
		Description: req.Description,
		HourlyRate:  *req.HourlyRate,
		Location:    &db.Location{Address: req.Address, Lat: *req.Lat, Lng: *req.Lng},
		Pictures:    req.Pictures,
	}
	if err := s.garages.UpdateProfile(ctx, garageID, profile); err != nil {
		s.logger.Error("failed to update garage profile", "garage", garageID, "err", err)
		return nil, err
	}
	s.logger.Info("garage profile updated", "garage", garageID, "pictures", len(pictures))
	return s.garages.GetGarage(ctx, garageID)
}
