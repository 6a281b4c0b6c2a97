package mailer

import (
	"context"
	"fmt"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

// Mailer notifies hosts by e-mail after a listing mutation commits. The host
// address is resolved through the user directory.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	hosts  domain.HostDirectory
	logger *logger.Logger
}

func New(host string, port int, from, password string, hosts domain.HostDirectory, log *logger.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
		hosts:  hosts,
		logger: log,
	}
}

func (m *Mailer) ListingCreated(ctx context.Context, hostID, listingName string) error {
	return m.send(ctx, hostID, "New Listing Published",
		"Your listing '"+listingName+"' has been published successfully.")
}

func (m *Mailer) ListingDeleted(ctx context.Context, hostID, listingName string) error {
	return m.send(ctx, hostID, "Listing Removed",
		"Your listing '"+listingName+"' has been removed.")
}

func (m *Mailer) send(ctx context.Context, hostID, subject, body string) error {
	toEmail, err := m.hosts.GetEmailByID(ctx, hostID)
	if err != nil {
		return fmt.Errorf("resolve host email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Mailer.send: failed to send email", "to", toEmail, "subject", subject, "error", err.Error())
		return err
	}
	return nil
}
