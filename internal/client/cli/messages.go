package cli

import (
	"errors"

	"github.com/dmitrijs2005/relief/internal/client/services"
	"github.com/dmitrijs2005/relief/internal/common"
)

// explain turns a command error into the message shown to the user.
func (a *App) explain(err error) string {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return a.validationMessages(ve)
	case errors.Is(err, common.ErrInvalidCredentials):
		return a.t("auth.invalidCredentials")
	case errors.Is(err, common.ErrNotAuthenticated):
		return a.t("auth.notLoggedIn")
	case errors.Is(err, common.ErrInvalidOrExpiredToken):
		return a.t("auth.invalidToken")
	case errors.Is(err, errPasswordMismatch):
		return a.t("auth.validation.passwordMismatch")
	case errors.Is(err, common.ErrDeliveryFailed):
		return a.t("bookingModal.submitError")
	case errors.Is(err, common.ErrAssistantUnavailable):
		return a.t("chat.unavailable")
	default:
		return "Error: " + err.Error()
	}
}
