package api

import (
	"net/http"

	"github.com/charmbracelet/log"

	"garagy/internal/entities"
	"garagy/internal/service"
)

type GarageHandler struct {
	Garages *service.GarageService
	logger  *log.Logger
}

func NewGarageHandler(garages *service.GarageService, logger *log.Logger) *GarageHandler {
	return &GarageHandler{Garages: garages, logger: logger}
}

func (h *GarageHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	garage, err := h.Garages.Profile(r.Context(), g)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, garage)
}

func (h *GarageHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req entities.GarageProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	garage, err := h.Garages.UpdateProfile(r.Context(), g, req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, garage)
}
