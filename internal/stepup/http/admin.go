package http

import (
	"encoding/json"
	"net/http"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/pkg/httpx"
	"github.com/shiftwise/stepup/pkg/slogx"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

// AdminHandler exposes policy settings and the user projection API.
type AdminHandler struct {
	SettingsService *service.SettingsService
	UserService     *service.UserService
	EnrollService   *service.EnrollService
}

// HandleGetSettings handles GET /v1/admin/2fa/settings
//
//	@Summary		Read the two-factor policy
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	stepupsdk.Settings	"Current policy"
//	@Failure		401	{object}	stepupsdk.APIError	"Invalid or missing access token"
//	@Failure		403	{object}	stepupsdk.APIError	"Missing admin scope"
//	@Router			/v1/admin/2fa/settings [get].
func (h *AdminHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	settings, err := h.SettingsService.Get(ctx)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, settingsToWire(settings))
}

// HandleUpdateSettings handles PUT /v1/admin/2fa/settings
//
//	@Summary		Update the two-factor policy
//	@Description	Replaces the global policy. At least one method must stay enabled while the
//	@Description	system is on.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepupsdk.Settings	true	"New policy"
//	@Success		200		{object}	stepupsdk.Settings	"Stored policy"
//	@Failure		400		{object}	stepupsdk.APIError	"Invalid policy"
//	@Failure		401		{object}	stepupsdk.APIError	"Invalid or missing access token"
//	@Failure		403		{object}	stepupsdk.APIError	"Missing admin scope"
//	@Router			/v1/admin/2fa/settings [put].
func (h *AdminHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var body stepupsdk.Settings
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stepupsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	stored, err := h.SettingsService.Update(ctx, domain.Settings{
		SystemEnabled:         body.SystemEnabled,
		RequireAdminOnly:      body.RequireAdminOnly,
		TOTPEnabled:           body.TOTPEnabled,
		SMSEnabled:            body.SMSEnabled,
		EmailEnabled:          body.EmailEnabled,
		RememberDeviceEnabled: body.RememberDeviceEnabled,
		GracePeriodDays:       body.GracePeriodDays,
		RememberDeviceDays:    body.RememberDeviceDays,
		BackupCodesCount:      body.BackupCodesCount,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("two-factor policy updated", "admin_id", httpx.UserIDFromContext(ctx))
	httpx.WriteJSON(w, http.StatusOK, settingsToWire(stored))
}

// HandleUpsertUser handles PUT /v1/admin/users/{id}
//
//	@Summary		Upsert a user projection
//	@Description	The platform pushes user rows here so verification codes can be routed and
//	@Description	the admin-only policy applied.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Platform user ID"
//	@Param			request	body		stepupsdk.UpsertUserRequest	true	"User fields"
//	@Success		200		{object}	stepupsdk.User				"Stored projection"
//	@Failure		400		{object}	stepupsdk.APIError			"Invalid user"
//	@Failure		401		{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Failure		403		{object}	stepupsdk.APIError			"Missing admin scope"
//	@Router			/v1/admin/users/{id} [put].
func (h *AdminHandler) HandleUpsertUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")
	var body stepupsdk.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stepupsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user := domain.User{
		ID:       id,
		Username: body.Username,
		Email:    body.Email,
		IsAdmin:  body.IsAdmin,
	}
	if body.Phone != "" {
		user.Phone = &body.Phone
	}

	stored, err := h.UserService.Upsert(ctx, user)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userToWire(stored))
}

// HandleDeleteUser handles DELETE /v1/admin/users/{id}
//
//	@Summary		Delete a user projection
//	@Description	Removes the projection; all two-factor state for the user cascades with it.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Platform user ID"
//	@Success		200	{object}	stepupsdk.MessageResponse	"Deleted"
//	@Failure		401	{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Failure		403	{object}	stepupsdk.APIError			"Missing admin scope"
//	@Router			/v1/admin/users/{id} [delete].
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.UserService.Delete(ctx, r.PathValue("id")); err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.MessageResponse{Message: "user deleted"})
}

// HandleResetUser2FA handles POST /v1/admin/users/{id}/2fa/reset
//
//	@Summary		Reset a user's two-factor state
//	@Description	Disables the user's two-factor verification and clears their backup codes and
//	@Description	trusted devices, typically after a lost authenticator.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Platform user ID"
//	@Success		200	{object}	stepupsdk.MessageResponse	"Reset"
//	@Failure		401	{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Failure		403	{object}	stepupsdk.APIError			"Missing admin scope"
//	@Router			/v1/admin/users/{id}/2fa/reset [post].
func (h *AdminHandler) HandleResetUser2FA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")
	if err := h.EnrollService.Disable(ctx, id); err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("two-factor state reset", "admin_id", httpx.UserIDFromContext(ctx), "user_id", id)
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.MessageResponse{Message: "two-factor state reset"})
}

func settingsToWire(s domain.Settings) stepupsdk.Settings {
	return stepupsdk.Settings{
		SystemEnabled:         s.SystemEnabled,
		RequireAdminOnly:      s.RequireAdminOnly,
		TOTPEnabled:           s.TOTPEnabled,
		SMSEnabled:            s.SMSEnabled,
		EmailEnabled:          s.EmailEnabled,
		RememberDeviceEnabled: s.RememberDeviceEnabled,
		GracePeriodDays:       s.GracePeriodDays,
		RememberDeviceDays:    s.RememberDeviceDays,
		BackupCodesCount:      s.BackupCodesCount,
		UpdatedAt:             s.UpdatedAt,
	}
}

func userToWire(u domain.User) stepupsdk.User {
	out := stepupsdk.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Phone != nil {
		out.Phone = *u.Phone
	}
	return out
}
