package api

import (
	"net/http"

	"github.com/charmbracelet/log"

	"garagy/internal/entities"
	"garagy/internal/service"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
	logger  *log.Logger
}

func NewAdminAuthHandler(svc service.AdminAuthService, logger *log.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc, logger: logger}
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Register creates the admin and their garage, then signs them in.
func (h *AdminAuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	admin, err := h.service.Register(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	resp, err := h.service.IssueToken(admin)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}
