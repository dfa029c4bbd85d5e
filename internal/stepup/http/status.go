package http

import (
	"net/http"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/pkg/httpx"
	"github.com/shiftwise/stepup/pkg/slogx"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

// deviceCookieName is the opaque trusted-device token cookie.
const deviceCookieName = "trusted_device"

// StatusHandler resolves the caller's step-up verdict.
type StatusHandler struct {
	StatusService *service.StatusService
}

// HandleStatus handles GET /v1/2fa/status
//
//	@Summary		Resolve step-up verification status
//	@Description	Answers whether the current session must verify, set up a method, or may proceed.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	stepupsdk.VerdictResponse	"Resolved status and required action"
//	@Failure		401	{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Failure		500	{object}	stepupsdk.APIError			"Internal server error"
//	@Router			/v1/2fa/status [get].
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	sessionID := httpx.SessionIDFromContext(ctx)
	if userID == "" || sessionID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	req := service.StatusRequest{
		UserID:    userID,
		SessionID: sessionID,
		UserAgent: r.UserAgent(),
		IPAddress: httpx.ClientIP(r),
	}
	if cookie, err := r.Cookie(deviceCookieName); err == nil {
		req.DeviceToken = cookie.Value
	}

	verdict, err := h.StatusService.Resolve(ctx, req)
	if err != nil {
		// The caller can always retry resolution; never block on a
		// transient persistence failure.
		log.Error("status resolution failed", "user_id", userID, "err", err)
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, stepupsdk.VerdictResponse{
			Status:  string(domain.StatusError),
			Action:  string(domain.ActionRetry),
			Message: "verification status is temporarily unavailable, please try again",
		})
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.VerdictResponse{
		Status:  string(verdict.Status),
		Action:  string(verdict.Action),
		Message: verdict.Message,
	})
}
