package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

// writeServiceError maps service sentinels onto the API error vocabulary.
// Anything unrecognized is logged and reported as a generic server error.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		stepupsdk.ErrRateLimited.WriteError(w)
	case errors.Is(err, service.ErrLocked):
		stepupsdk.ErrLocked.WriteError(w)
	case errors.Is(err, service.ErrCodeExpired):
		stepupsdk.ErrCodeExpired.WriteError(w)
	case errors.Is(err, service.ErrInvalidCode):
		stepupsdk.ErrInvalidCode.WriteError(w)
	case errors.Is(err, service.ErrNotEnabled):
		stepupsdk.ErrNotEnabled.WriteError(w)
	case errors.Is(err, service.ErrAlreadyEnabled):
		stepupsdk.ErrInvalidRequest.WithDescription("two-factor verification is already enabled").WriteError(w)
	case errors.Is(err, service.ErrSetupNotPending):
		stepupsdk.ErrInvalidRequest.WithDescription("no method setup is in progress").WriteError(w)
	case errors.Is(err, service.ErrMethodDisabled):
		stepupsdk.ErrMethodDisabled.WriteError(w)
	case errors.Is(err, service.ErrRememberDisabled):
		stepupsdk.ErrMethodDisabled.WithDescription("remembering devices is disabled by policy").WriteError(w)
	case errors.Is(err, service.ErrInvalidMethod):
		stepupsdk.ErrInvalidRequest.WithDescription("unknown verification method").WriteError(w)
	case errors.Is(err, service.ErrNoDestination):
		stepupsdk.ErrInvalidRequest.WithDescription("no delivery destination for this method").WriteError(w)
	case errors.Is(err, service.ErrNoDeliveryMethod):
		stepupsdk.ErrInvalidRequest.WithDescription("no delivery method configured for this account").WriteError(w)
	case errors.Is(err, service.ErrInvalidSettings), errors.Is(err, service.ErrInvalidUser):
		stepupsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrDeviceNotFound), errors.Is(err, store.ErrNotFound):
		stepupsdk.ErrNotFound.WriteError(w)
	default:
		log.Error("unhandled service error", "err", err)
		stepupsdk.ErrServerError.WriteError(w)
	}
}
