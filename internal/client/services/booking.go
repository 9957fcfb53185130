// This file defines the outbound request forms: booking, contact and
// accommodation.
package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/relief/internal/client/mailer"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/clock"
	"github.com/dmitrijs2005/relief/internal/common"
	"github.com/dmitrijs2005/relief/internal/logging"
)

// Mailer delivers a composed message.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Archiver stores a copy of a delivered submission and returns its key.
type Archiver interface {
	Archive(ctx context.Context, s models.Submission, at time.Time) (string, error)
}

// ValidationError maps each rejected field to a translation key.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", common.ErrValidation, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

type BookingService interface {
	Validate(s models.Submission) error
	Submit(ctx context.Context, s models.Submission) error
}

type bookingService struct {
	mailer   Mailer
	archiver Archiver
	clock    clock.Clock
	logger   logging.Logger
}

func NewBookingService(m Mailer, a Archiver, c clock.Clock, logger logging.Logger) BookingService {
	return &bookingService{mailer: m, archiver: a, clock: c, logger: logger}
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate returns a *ValidationError listing every missing or malformed
// field, or nil.
func (b *bookingService) Validate(s models.Submission) error {
	var prefix string
	switch s.FormType {
	case models.FormBooking:
		prefix = "bookingModal.validation."
	case models.FormContact:
		prefix = "contactForm.validation."
	case models.FormAccommodation:
		prefix = "accommodationModal.validation."
	default:
		return fmt.Errorf("%w: unknown form type %q", common.ErrValidation, s.FormType)
	}

	fields := map[string]string{}
	if blank(s.Name) {
		fields["name"] = prefix + "nameRequired"
	}
	if blank(s.Email) {
		fields["email"] = prefix + "emailRequired"
	} else if !emailPattern.MatchString(s.Email) {
		fields["email"] = prefix + "emailInvalid"
	}

	switch s.FormType {
	case models.FormBooking:
		if blank(s.Date) {
			fields["date"] = prefix + "dateRequired"
		}
		if blank(s.Time) {
			fields["time"] = prefix + "timeRequired"
		}
	case models.FormContact:
		if blank(s.Notes) {
			fields["notes"] = prefix + "messageRequired"
		}
	case models.FormAccommodation:
		if !slices.Contains(models.AccommodationTypes, s.AccommodationType) {
			fields["accommodation_type"] = prefix + "accommodationTypeRequired"
		}
		if blank(s.Duration) {
			fields["duration"] = prefix + "durationRequired"
		}
		if blank(s.Guests) {
			fields["guests"] = prefix + "guestsRequired"
		} else if n, err := strconv.ParseFloat(strings.TrimSpace(s.Guests), 64); err != nil || n <= 0 || math.IsInf(n, 0) {
			fields["guests"] = prefix + "guestsInvalid"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func orDefault(s, def string) string {
	if blank(s) {
		return def
	}
	return strings.TrimSpace(s)
}

// ComposeBody renders the plain-text message for s.
func ComposeBody(s models.Submission) string {
	var sb strings.Builder
	switch s.FormType {
	case models.FormBooking:
		sb.WriteString("New booking request with the following details:\n\n")
		fmt.Fprintf(&sb, "Service: %s\n", orDefault(s.ServiceTitle, "Not specified"))
		fmt.Fprintf(&sb, "Preferred Date: %s\n", strings.TrimSpace(s.Date))
		fmt.Fprintf(&sb, "Preferred Time: %s\n", strings.TrimSpace(s.Time))
		fmt.Fprintf(&sb, "Phone Number: %s\n\n", orDefault(s.Phone, "Not provided"))
		fmt.Fprintf(&sb, "Additional Notes:\n%s", orDefault(s.Notes, "None"))
	case models.FormContact:
		sb.WriteString("New contact request with the following details:\n\n")
		fmt.Fprintf(&sb, "Phone Number: %s\n\n", orDefault(s.Phone, "Not provided"))
		fmt.Fprintf(&sb, "Message:\n%s", strings.TrimSpace(s.Notes))
	case models.FormAccommodation:
		sb.WriteString("New accommodation request with the following details:\n\n")
		fmt.Fprintf(&sb, "Accommodation Type: %s\n", s.AccommodationType)
		fmt.Fprintf(&sb, "Length of Stay: %s\n", strings.TrimSpace(s.Duration))
		fmt.Fprintf(&sb, "Number of Guests: %s\n", strings.TrimSpace(s.Guests))
		fmt.Fprintf(&sb, "Preferred Area: %s\n", orDefault(s.Area, "Not specified"))
		fmt.Fprintf(&sb, "Budget: %s\n\n", orDefault(s.Budget, "Not specified"))
		fmt.Fprintf(&sb, "Additional Notes:\n%s", orDefault(s.Notes, "None"))
	}
	return sb.String()
}

// Submit validates, delivers once and archives on success. Delivery failures
// wrap common.ErrDeliveryFailed; archive failures are only logged.
func (b *bookingService) Submit(ctx context.Context, s models.Submission) error {
	if err := b.Validate(s); err != nil {
		return err
	}

	msg := mailer.Message{
		Name:         strings.TrimSpace(s.Name),
		Email:        strings.TrimSpace(s.Email),
		Body:         ComposeBody(s),
		FormType:     s.FormType.Title(),
		ServiceTitle: s.ServiceTitle,
		SendCopy:     s.SendCopy,
	}

	if err := b.mailer.Send(ctx, msg); err != nil {
		b.logger.Error(ctx, "form delivery failed", "form", s.FormType, "error", err)
		return fmt.Errorf("%w: %w", common.ErrDeliveryFailed, err)
	}
	b.logger.Info(ctx, "form delivered", "form", s.FormType)

	if key, err := b.archiver.Archive(ctx, s, b.clock.Now()); err != nil {
		b.logger.Warn(ctx, "submission archive failed", "form", s.FormType, "error", err)
	} else if key != "" {
		b.logger.Debug(ctx, "submission archived", "key", key)
	}
	return nil
}
