package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/staybooking/listing-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

type stubHostDirectory struct {
	email string
	err   error
	calls []string
}

func (d *stubHostDirectory) GetEmailByID(ctx context.Context, hostID string) (string, error) {
	d.calls = append(d.calls, hostID)
	return d.email, d.err
}

func TestMailer_UnresolvableHostFailsBeforeDialing(t *testing.T) {
	dirErr := errors.New("host not found")
	hosts := &stubHostDirectory{err: dirErr}
	m := New("localhost", 1025, "noreply@staybooking.test", "", hosts, logger.NewLogger())

	err := m.ListingCreated(context.Background(), "host-1", "Sea Cabin")
	assert.ErrorIs(t, err, dirErr)
	assert.Equal(t, []string{"host-1"}, hosts.calls)

	err = m.ListingDeleted(context.Background(), "host-2", "Sea Cabin")
	assert.ErrorIs(t, err, dirErr)
	assert.Equal(t, []string{"host-1", "host-2"}, hosts.calls)
}
