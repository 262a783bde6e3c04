package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/student-election-api/internal/domain"
)

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Notifier delivers PINs by email, and by SMS when the voter has a phone.
type Notifier struct {
	mailer mailer
	sms    smsSender
}

// NewNotifier accepts nil for either channel to disable it.
func NewNotifier(m mailer, sms smsSender) *Notifier {
	return &Notifier{mailer: m, sms: sms}
}

// NotifyPIN fails only when no channel delivered the PIN.
func (n *Notifier) NotifyPIN(ctx context.Context, v *domain.Voter, pin string, expiresAt *time.Time) error {
	body := pinMessage(pin, expiresAt)
	var errs []error
	delivered := false

	if n.mailer != nil && v.Email != "" {
		if err := n.mailer.SendEmail(v.Email, "Your election PIN", body); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		} else {
			delivered = true
		}
	}
	if n.sms != nil && v.Phone != nil && *v.Phone != "" {
		if err := n.sms.SendSMS(ctx, *v.Phone, body); err != nil {
			errs = append(errs, fmt.Errorf("sms: %w", err))
		} else {
			delivered = true
		}
	}

	if delivered {
		for _, err := range errs {
			slog.Warn("pin channel failed", "registration_number", v.RegistrationNumber, "err", err)
		}
		return nil
	}
	if len(errs) == 0 {
		return errors.New("voter has no contact channel")
	}
	return errors.Join(errs...)
}

func pinMessage(pin string, expiresAt *time.Time) string {
	if expiresAt == nil {
		return fmt.Sprintf("Your election PIN is %s. Do not share it.", pin)
	}
	return fmt.Sprintf("Your election PIN is %s. It expires at %s. Do not share it.",
		pin, expiresAt.Format("15:04 MST"))
}
