package http

import (
	"encoding/json"
	"net/http"

	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/pkg/httpx"
	"github.com/shiftwise/stepup/pkg/slogx"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

// VerifyHandler accepts verification codes and session teardown.
type VerifyHandler struct {
	VerifyService  *service.VerifyService
	SessionService *service.SessionService
}

// HandleVerify handles POST /v1/2fa/verify
//
//	@Summary		Submit a verification code
//	@Description	Verifies a TOTP, delivered, or backup code for the current session. Optionally
//	@Description	remembers the device, returning the opaque token in a Secure cookie.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepupsdk.VerifyRequest		true	"Code and device options"
//	@Success		200		{object}	stepupsdk.VerifyResponse	"Verification succeeded"
//	@Failure		400		{object}	stepupsdk.APIError			"Wrong or expired code"
//	@Failure		401		{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Failure		423		{object}	stepupsdk.APIError			"Locked after repeated failures"
//	@Failure		429		{object}	stepupsdk.APIError			"Rate limited"
//	@Router			/v1/2fa/verify [post].
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	sessionID := httpx.SessionIDFromContext(ctx)
	if userID == "" || sessionID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var body stepupsdk.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
		stepupsdk.ErrInvalidRequest.WithDescription("a code is required").WriteError(w)
		return
	}

	result, err := h.VerifyService.Verify(ctx, service.VerifyRequest{
		UserID:         userID,
		SessionID:      sessionID,
		Code:           body.Code,
		UserAgent:      r.UserAgent(),
		IPAddress:      httpx.ClientIP(r),
		RememberDevice: body.RememberDevice,
		DeviceName:     body.DeviceName,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	if result.DeviceToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     deviceCookieName,
			Value:    result.DeviceToken,
			Path:     "/",
			Expires:  result.DeviceExpiresAt,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}

	log.Info("step-up verification succeeded",
		"user_id", userID, "method", string(result.Method), "backup_code", result.UsedBackupCode)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.VerifyResponse{
		Verified:             true,
		Method:               string(result.Method),
		UsedBackupCode:       result.UsedBackupCode,
		BackupCodesRemaining: result.BackupCodesRemaining,
	})
}

// HandleClearSession handles DELETE /v1/2fa/session
//
//	@Summary		Clear step-up verification
//	@Description	Drops the session's verification, typically on logout.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	stepupsdk.MessageResponse	"Cleared"
//	@Failure		401	{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Router			/v1/2fa/session [delete].
func (h *VerifyHandler) HandleClearSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sessionID := httpx.SessionIDFromContext(ctx)
	if sessionID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.SessionService.Clear(ctx, sessionID); err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, stepupsdk.MessageResponse{Message: "verification cleared"})
}
