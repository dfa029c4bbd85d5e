package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/pkg/httpx"
	"github.com/shiftwise/stepup/pkg/slogx"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

// SetupHandler walks users through method enrollment and backup codes.
type SetupHandler struct {
	EnrollService *service.EnrollService
}

// HandleTOTPEnroll handles POST /v1/2fa/totp/enroll
//
//	@Summary		Enroll a TOTP authenticator
//	@Description	Generates a TOTP secret for the account and returns it with its otpauth URL.
//	@Description	The method stays pending until a code proves the authenticator works.
//	@Tags			Setup
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	stepupsdk.TOTPEnrollResponse	"Secret and otpauth URL (shown once)"
//	@Failure		400	{object}	stepupsdk.APIError				"Already enabled"
//	@Failure		401	{object}	stepupsdk.APIError				"Invalid or missing access token"
//	@Failure		429	{object}	stepupsdk.APIError				"Rate limited"
//	@Router			/v1/2fa/totp/enroll [post].
func (h *SetupHandler) HandleTOTPEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	enrollment, err := h.EnrollService.EnrollTOTP(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.TOTPEnrollResponse{
		Secret:  enrollment.Secret,
		URL:     enrollment.URL,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
	})
}

// HandleTOTPActivate handles POST /v1/2fa/totp/activate
//
//	@Summary		Activate TOTP
//	@Description	Proves the authenticator with a current code, enables two-factor verification,
//	@Description	and returns the freshly minted backup codes.
//	@Tags			Setup
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepupsdk.ActivateRequest		true	"Current TOTP code"
//	@Success		200		{object}	stepupsdk.BackupCodesResponse	"Backup codes (shown once)"
//	@Failure		400		{object}	stepupsdk.APIError				"Wrong code or no enrollment"
//	@Failure		401		{object}	stepupsdk.APIError				"Invalid or missing access token"
//	@Failure		429		{object}	stepupsdk.APIError				"Rate limited"
//	@Router			/v1/2fa/totp/activate [post].
func (h *SetupHandler) HandleTOTPActivate(w http.ResponseWriter, r *http.Request) {
	h.activate(w, r, h.EnrollService.ActivateTOTP)
}

// HandleDeliverySetup handles POST /v1/2fa/setup/delivery
//
//	@Summary		Set up sms or email delivery
//	@Description	Records the chosen delivery method (capturing the phone number for sms) and
//	@Description	sends a confirmation code to prove the destination works.
//	@Tags			Setup
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepupsdk.SetupDeliveryRequest	true	"Method and destination"
//	@Success		200		{object}	stepupsdk.MessageResponse		"Confirmation code sent"
//	@Failure		400		{object}	stepupsdk.APIError				"Bad method or missing phone"
//	@Failure		401		{object}	stepupsdk.APIError				"Invalid or missing access token"
//	@Failure		429		{object}	stepupsdk.APIError				"Rate limited"
//	@Router			/v1/2fa/setup/delivery [post].
func (h *SetupHandler) HandleDeliverySetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var body stepupsdk.SetupDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stepupsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	err := h.EnrollService.SetupDelivery(ctx, userID, domain.Method(body.Method), body.Phone)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, stepupsdk.MessageResponse{
		Message: "confirmation code sent",
	})
}

// HandleDeliveryActivate handles POST /v1/2fa/setup/activate
//
//	@Summary		Confirm sms or email delivery
//	@Description	Redeems the confirmation code from delivery setup, enables two-factor
//	@Description	verification, and returns the freshly minted backup codes.
//	@Tags			Setup
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepupsdk.ActivateRequest		true	"Delivered confirmation code"
//	@Success		200		{object}	stepupsdk.BackupCodesResponse	"Backup codes (shown once)"
//	@Failure		400		{object}	stepupsdk.APIError				"Wrong or expired code, or no setup in progress"
//	@Failure		401		{object}	stepupsdk.APIError				"Invalid or missing access token"
//	@Failure		429		{object}	stepupsdk.APIError				"Rate limited"
//	@Router			/v1/2fa/setup/activate [post].
func (h *SetupHandler) HandleDeliveryActivate(w http.ResponseWriter, r *http.Request) {
	h.activate(w, r, h.EnrollService.ActivateDelivery)
}

// HandleRegenerateBackupCodes handles POST /v1/2fa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces all backup codes with a fresh batch, returned once.
//	@Tags			Setup
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	stepupsdk.BackupCodesResponse	"Backup codes (shown once)"
//	@Failure		401	{object}	stepupsdk.APIError				"Invalid or missing access token"
//	@Failure		409	{object}	stepupsdk.APIError				"Two-factor not enabled"
//	@Failure		429	{object}	stepupsdk.APIError				"Rate limited"
//	@Router			/v1/2fa/backup-codes [post].
func (h *SetupHandler) HandleRegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	codes, err := h.EnrollService.RegenerateBackupCodes(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("backup codes regenerated", "user_id", userID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.BackupCodesResponse{BackupCodes: codes})
}

// activate is the shared shape of both activation endpoints.
func (h *SetupHandler) activate(
	w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, userID, code string) ([]string, error),
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var body stepupsdk.ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
		stepupsdk.ErrInvalidRequest.WithDescription("a code is required").WriteError(w)
		return
	}

	codes, err := fn(ctx, userID, body.Code)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("two-factor verification enabled", "user_id", userID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.BackupCodesResponse{BackupCodes: codes})
}
