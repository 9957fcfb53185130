package services

import (
	"context"
	"time"
)

// Durable storage keys. They are part of the on-device format and must not
// change between releases.
const (
	KeyCachedServices     = "relief-psych-cached-services"
	KeyCachedFAQs         = "relief-psych-cached-faqs"
	KeyCachedTestimonials = "relief-psych-cached-testimonials"
	KeyCachedTranslations = "relief-psych-cached-translations"

	KeyUser       = "relief-psych-user"
	KeyResetToken = "relief-psych-reset-token"
)

// ContentKeys lists the four content cache keys.
var ContentKeys = []string{KeyCachedServices, KeyCachedFAQs, KeyCachedTestimonials, KeyCachedTranslations}

// AllKeys lists every key the client writes.
var AllKeys = append(append([]string{}, ContentKeys...), KeyUser, KeyResetToken)

// simulateLatency waits d or until ctx is done.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
