package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	apperrors "garagy/internal/errors"
	"garagy/internal/layout"
)

const (
	sheetMargin  = 15.0
	cellSize     = 30.0
	cellsPerRow  = 6
	qrSize       = 20.0
	slotLabelMax = 12
)

// ExportService renders the persisted layout as a printable sheet with a
// QR label per slot, for sticking on the bays.
type ExportService struct {
	layouts *LayoutService
	logger  *log.Logger
}

func NewExportService(layouts *LayoutService, logger *log.Logger) *ExportService {
	return &ExportService{layouts: layouts, logger: logger}
}

// SlotQRPayload is the text encoded in a slot's label.
func SlotQRPayload(garageID, slotID string) string {
	return "garagy://slot/" + garageID + "/" + slotID
}

func (s *ExportService) LayoutPDF(ctx context.Context, garageID string) ([]byte, error) {
	l, err := s.layouts.load(ctx, garageID)
	if err != nil {
		return nil, err
	}
	return renderLayoutPDF(garageID, l)
}

func renderLayoutPDF(garageID string, l layout.GarageLayout) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(sheetMargin, sheetMargin, sheetMargin)
	pdf.SetAutoPageBreak(false, sheetMargin)
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Garage layout")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	c := l.Counts()
	pdf.Cell(0, 6, fmt.Sprintf("Garage %s  |  updated %s", garageID, l.LastUpdated.Format("02 Jan 2006 15:04 MST")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("%d slots: %d available, %d unavailable, %d reserved", c.Total, c.Available, c.Unavailable, c.Reserved))
	pdf.Ln(10)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	for _, sec := range l.Sections {
		if pdf.GetY()+8+cellSize > pageH-sheetMargin {
			pdf.AddPage()
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, sec.Name)
		pdf.Ln(8)

		for i, slot := range sec.Slots {
			col := i % cellsPerRow
			if col == 0 && i > 0 {
				pdf.Ln(cellSize)
			}
			if col == 0 && pdf.GetY()+cellSize > pageH-sheetMargin {
				pdf.AddPage()
			}
			x := sheetMargin + float64(col)*cellSize
			y := pdf.GetY()

			r, g, b := statusColor(slot.Status)
			pdf.SetFillColor(r, g, b)
			pdf.Rect(x, y, cellSize-1, cellSize-1, "FD")

			png, err := qrcode.Encode(SlotQRPayload(garageID, slot.ID), qrcode.Medium, 128)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode QR for slot %s", slot.ID)
			}
			name := "qr-" + slot.ID
			pdf.RegisterImageOptionsReader(name, imageOpts, bytes.NewReader(png))
			pdf.ImageOptions(name, x+(cellSize-1-qrSize)/2, y+1, qrSize, qrSize, false, imageOpts, 0, "")

			pdf.SetFont("Arial", "", 7)
			pdf.SetXY(x, y+qrSize+1.5)
			pdf.CellFormat(cellSize-1, 4, shortID(slot.ID), "", 0, "C", false, 0, "")
			pdf.SetXY(sheetMargin, y)
		}
		pdf.Ln(cellSize + 4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "render layout sheet")
	}
	return buf.Bytes(), nil
}

func statusColor(s layout.Status) (int, int, int) {
	switch s {
	case layout.StatusUnavailable:
		return 255, 199, 206
	case layout.StatusReserved:
		return 255, 235, 156
	default:
		return 198, 239, 206
	}
}

func shortID(id string) string {
	if len(id) <= slotLabelMax {
		return id
	}
	return id[:slotLabelMax-1] + "~"
}
