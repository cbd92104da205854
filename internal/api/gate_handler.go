package api

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	apperrors "garagy/internal/errors"
	"garagy/internal/service"
)

const defaultEventLimit = 50

// GateHandler serves the entry/exit plate scanner and the occupancy
// history.
type GateHandler struct {
	Gates  *service.GateService
	Jobs   *service.JobService
	logger *log.Logger
}

func NewGateHandler(gates *service.GateService, jobs *service.JobService, logger *log.Logger) *GateHandler {
	return &GateHandler{Gates: gates, Jobs: jobs, logger: logger}
}

func (h *GateHandler) Scan(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, h.logger, apperrors.Wrap(apperrors.CodeInvalidInput, err, "expected a multipart form"))
		return
	}
	image, err := formFile(r, "image")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	event, err := h.Gates.Scan(r.Context(), g, mux.Vars(r)["direction"], image)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

func (h *GateHandler) Events(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	events, err := h.Gates.Events(r.Context(), g, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *GateHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	snaps, err := h.Jobs.Snapshots(r.Context(), g)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, snaps)
}
