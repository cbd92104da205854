package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/charmbracelet/log"

	"garagy/internal/db"
	"garagy/internal/entities"
)

var reservationEmailTmpl = template.Must(template.New("reservation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Your parking slot is reserved</h2>
  <p>Hello {{.UserName}},</p>
  <p>{{.GarageName}} reserved a slot for you.</p>
  <table>
    <tr><td><strong>Section</strong></td><td>{{.SectionName}}</td></tr>
    <tr><td><strong>Slot</strong></td><td>{{.SlotID}}</td></tr>
    <tr><td><strong>Reserved at</strong></td><td>{{.ReservedAt}}</td></tr>
  </table>
  <p style="color: #888;">&copy; {{.CurrentYear}} {{.GarageName}}</p>
</body>
</html>`))

// SenderService implements Notifier over email and SMS. Either channel may
// be nil, in which case it is skipped.
type SenderService struct {
	email      EmailSender
	sms        SMSSender
	garageName string
	logger     *log.Logger
}

func NewSenderService(email EmailSender, sms SMSSender, garageName string, logger *log.Logger) *SenderService {
	return &SenderService{email: email, sms: sms, garageName: garageName, logger: logger}
}

func (s *SenderService) NotifyReservation(ctx context.Context, user db.User, data entities.ReservationEmailData) {
	if data.GarageName == "" {
		data.GarageName = s.garageName
	}
	info := user.PersonalInfo

	if s.email != nil && info.Email != "" {
		subject := fmt.Sprintf("%s: slot %s reserved for you", data.GarageName, data.SlotID)
		plain := fmt.Sprintf(
			"Hello %s,\n\n%s reserved a slot for you.\n\nSection: %s\nSlot: %s\nReserved at: %s\n\n%d %s",
			data.UserName, data.GarageName, data.SectionName, data.SlotID, data.ReservedAt, data.CurrentYear, data.GarageName,
		)
		var html bytes.Buffer
		if err := reservationEmailTmpl.Execute(&html, data); err != nil {
			s.logger.Error("failed to render reservation email", "slot", data.SlotID, "err", err)
		}
		if err := s.email.SendEmail(ctx, info.Email, info.Name, subject, plain, html.String()); err != nil {
			s.logger.Error("reservation email failed", "slot", data.SlotID, "to", info.Email, "err", err)
		}
	}

	if s.sms != nil && info.PhoneNumber != "" {
		body := fmt.Sprintf("%s: slot %s (%s) is reserved for you.", data.GarageName, data.SlotID, data.SectionName)
		if err := s.sms.SendSMS(ctx, info.PhoneNumber, body); err != nil {
			s.logger.Error("reservation SMS failed", "slot", data.SlotID, "to", info.PhoneNumber, "err", err)
		}
	}
}
