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

// CodesHandler sends delivered verification codes.
type CodesHandler struct {
	DeliveryService *service.DeliveryService
}

// HandleSend handles POST /v1/2fa/codes/send
//
//	@Summary		Request a verification code
//	@Description	Sends a one-time code over sms or email. Omitting the method uses the
//	@Description	account's primary delivery method.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepupsdk.SendCodeRequest	false	"Optional method override"
//	@Success		200		{object}	stepupsdk.SendCodeResponse	"Code sent"
//	@Failure		400		{object}	stepupsdk.APIError			"No delivery method or destination"
//	@Failure		401		{object}	stepupsdk.APIError			"Invalid or missing access token"
//	@Failure		429		{object}	stepupsdk.APIError			"Rate limited"
//	@Router			/v1/2fa/codes/send [post].
func (h *CodesHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		stepupsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var body stepupsdk.SendCodeRequest
	if r.Body != nil {
		// An empty body is fine; it means "use the primary method".
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	method := domain.Method(body.Method)
	var err error
	if method == "" {
		method, err = h.DeliveryService.SendPrimary(ctx, userID)
	} else {
		err = h.DeliveryService.SendCode(ctx, userID, method)
	}
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("verification code sent", "user_id", userID, "method", string(method))
	httpx.WriteJSON(w, http.StatusOK, stepupsdk.SendCodeResponse{Method: string(method)})
}
