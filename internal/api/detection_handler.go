package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
	"garagy/internal/service"
)

// maxUploadBytes bounds multipart uploads of garage and gate photos.
const maxUploadBytes = 20 << 20

type DetectionHandler struct {
	Service *service.DetectionService
	logger  *log.Logger
}

func NewDetectionHandler(svc *service.DetectionService, logger *log.Logger) *DetectionHandler {
	return &DetectionHandler{Service: svc, logger: logger}
}

// CreatePreview accepts a multipart form with the garage photo in "image"
// and the annotated polygons in "slots", either as a field or a file.
func (h *DetectionHandler) CreatePreview(w http.ResponseWriter, r *http.Request) {
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
	anns, err := formAnnotations(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp, err := h.Service.CreatePreview(r.Context(), g, image, anns)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *DetectionHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	resp, err := h.Service.GetPreview(r.Context(), g, mux.Vars(r)["previewID"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *DetectionHandler) AdoptPreview(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	l, err := h.Service.AdoptPreview(r.Context(), g, mux.Vars(r)["previewID"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"layout": l, "counts": l.Counts()})
}

func (h *DetectionHandler) DiscardPreview(w http.ResponseWriter, r *http.Request) {
	g, err := garageID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.Service.DiscardPreview(r.Context(), g, mux.Vars(r)["previewID"]); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func formFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err, "%s file is required", field)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err, "could not read %s", field)
	}
	return data, nil
}

func formAnnotations(r *http.Request) ([]layout.Annotation, error) {
	raw := []byte(r.FormValue("slots"))
	if len(raw) == 0 {
		data, err := formFile(r, "slots")
		if err != nil {
			return nil, err
		}
		raw = data
	}
	var anns []layout.Annotation
	if err := json.Unmarshal(raw, &anns); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err, "slots must be a JSON array of polygons")
	}
	return anns, nil
}
