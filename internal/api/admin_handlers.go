package api

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"garagy/internal/entities"
	"garagy/internal/layout"
	"garagy/internal/service"
)

// AdminHandler serves the layout editor and the slot actions of the
// signed-in admin's garage.
type AdminHandler struct {
	Layouts      *service.LayoutService
	Reservations *service.ReservationService
	Export       *service.ExportService
	logger       *log.Logger
}

func NewAdminHandler(layouts *service.LayoutService, reservations *service.ReservationService, export *service.ExportService, logger *log.Logger) *AdminHandler {
	return &AdminHandler{Layouts: layouts, Reservations: reservations, Export: export, logger: logger}
}

func (h *AdminHandler) Editor(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	resp, err := h.Layouts.Editor(r.Context(), g)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) EditConfiguration(w http.ResponseWriter, r *http.Request) {
	var req entities.ConfigurationEditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Layouts.EditConfiguration(req))
}

func (h *AdminHandler) Generate(w http.ResponseWriter, r *http.Request) {
	h.draft(w, r, h.Layouts.Generate)
}

func (h *AdminHandler) Resize(w http.ResponseWriter, r *http.Request) {
	h.draft(w, r, h.Layouts.Resize)
}

type draftFunc func(ctx context.Context, garageID string, req entities.GenerateRequest) (layout.GarageLayout, error)

func (h *AdminHandler) draft(w http.ResponseWriter, r *http.Request, build draftFunc) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req entities.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	l, err := build(r.Context(), g, req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entities.LayoutResponse{Layout: l, Counts: l.Counts()})
}

func (h *AdminHandler) SaveLayout(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req entities.SaveLayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	saved, err := h.Layouts.Save(r.Context(), g, req.Layout)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entities.LayoutResponse{Layout: saved, Counts: saved.Counts()})
}

func (h *AdminHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	resp, err := h.Layouts.Current(r.Context(), g)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) ToggleSlot(w http.ResponseWriter, r *http.Request) {
	h.slotAction(w, r, h.Layouts.Toggle)
}

func (h *AdminHandler) ReserveSlot(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req entities.ReserveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	resp, err := h.Reservations.Reserve(r.Context(), g, mux.Vars(r)["slotID"], req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) ReleaseSlot(w http.ResponseWriter, r *http.Request) {
	h.slotAction(w, r, h.Reservations.Release)
}

// Occupant always answers 200 once the slot exists; lookup failures are
// reported in the body's status.
func (h *AdminHandler) Occupant(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	resp, err := h.Reservations.LookupOccupant(r.Context(), g, mux.Vars(r)["slotID"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	pdf, err := h.Export.LayoutPDF(r.Context(), g)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="layout.pdf"`)
	w.Write(pdf)
}

type slotFunc func(ctx context.Context, garageID, slotID string) (entities.SlotResponse, error)

func (h *AdminHandler) slotAction(w http.ResponseWriter, r *http.Request, fn slotFunc) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	resp, err := fn(r.Context(), g, mux.Vars(r)["slotID"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
