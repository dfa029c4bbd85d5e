package http

import (
	"net/http"

	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/pkg/httpx"
	"github.com/shiftwise/stepup/pkg/slogx"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

// DevicesHandler lists and revokes trusted devices.
type DevicesHandler struct {
	DeviceService *service.DeviceService
}

// HandleList handles GET /v1/2fa/devices
//
//	@Summary		List trusted devices
//	@Description	Returns the account's trusted devices, newest first. Tokens are never included.
//	@Tags			Devices
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	stepupsdk.DevicesResponse	"Trusted devices"
//	@Failure		401	{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Router			/v1/2fa/devices [get].
func (h *DevicesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	devices, err := h.DeviceService.List(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	out := stepupsdk.DevicesResponse{Devices: make([]stepupsdk.Device, 0, len(devices))}
	for _, d := range devices {
		out.Devices = append(out.Devices, stepupsdk.Device{
			ID:         d.ID,
			Name:       d.Name,
			UserAgent:  d.UserAgent,
			IPAddress:  d.IPAddress,
			CreatedAt:  d.CreatedAt,
			LastUsedAt: d.LastUsedAt,
			ExpiresAt:  d.ExpiresAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke handles DELETE /v1/2fa/devices/{id}
//
//	@Summary		Revoke a trusted device
//	@Description	Removes one trusted device; its token stops vouching immediately.
//	@Tags			Devices
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Device ID"
//	@Success		200	{object}	stepupsdk.MessageResponse	"Revoked"
//	@Failure		401	{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Failure		404	{object}	stepupsdk.APIError			"Unknown device"
//	@Router			/v1/2fa/devices/{id} [delete].
func (h *DevicesHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	deviceID := r.PathValue("id")
	if deviceID == "" {
		stepupsdk.ErrInvalidRequest.WithDescription("a device id is required").WriteError(w)
		return
	}

	if err := h.DeviceService.Revoke(ctx, userID, deviceID); err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("trusted device revoked", "user_id", userID, "device_id", deviceID)
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.MessageResponse{Message: "device revoked"})
}
