package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/pkg/httpx"
	"github.com/shiftwise/stepup/pkg/jwtx"
	"github.com/shiftwise/stepup/pkg/slogx"

	_ "github.com/shiftwise/stepup/api/stepup" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// adminScope gates the policy and user-projection endpoints.
const adminScope = "admin:2fa"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	StatusService   *service.StatusService
	VerifyService   *service.VerifyService
	SessionService  *service.SessionService
	DeliveryService *service.DeliveryService
	EnrollService   *service.EnrollService
	DeviceService   *service.DeviceService
	SettingsService *service.SettingsService
	UserService     *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTwoFactor()
	r.registerSetup()
	r.registerDevices()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			ShiftWise Step-Up Verification API
//	@version		0.1.0
//	@description	Two-factor step-up verification for the ShiftWise scheduling platform:
//	@description	status resolution, TOTP/sms/email verification, trusted devices, backup
//	@description	codes, and the admin policy surface.
//
//	@contact.name				ShiftWise Platform Team
//	@contact.url				https://github.com/shiftwise/stepup
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerTwoFactor() {
	statusHandler := &StatusHandler{StatusService: r.StatusService}
	verifyHandler := &VerifyHandler{VerifyService: r.VerifyService, SessionService: r.SessionService}
	codesHandler := &CodesHandler{DeliveryService: r.DeliveryService}

	// GET /status - every gated page load hits this, keep it lenient
	r.Mux.Handle("GET /v1/2fa/status",
		httpx.Chain(http.HandlerFunc(statusHandler.HandleStatus),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /verify - strict, this is the brute-force surface. The service
	// layer adds its own persistent per-user rolling-window limit on top.
	r.Mux.Handle("POST /v1/2fa/verify",
		httpx.Chain(http.HandlerFunc(verifyHandler.HandleVerify),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /codes/send - strict, each hit costs an outbound sms/email
	r.Mux.Handle("POST /v1/2fa/codes/send",
		httpx.Chain(http.HandlerFunc(codesHandler.HandleSend),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/2fa/session",
		httpx.Chain(http.HandlerFunc(verifyHandler.HandleClearSession),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSetup() {
	h := &SetupHandler{EnrollService: r.EnrollService}

	for pattern, handler := range map[string]http.HandlerFunc{
		"POST /v1/2fa/totp/enroll":    h.HandleTOTPEnroll,
		"POST /v1/2fa/totp/activate":  h.HandleTOTPActivate,
		"POST /v1/2fa/setup/delivery": h.HandleDeliverySetup,
		"POST /v1/2fa/setup/activate": h.HandleDeliveryActivate,
		"POST /v1/2fa/backup-codes":   h.HandleRegenerateBackupCodes,
	} {
		r.Mux.Handle(pattern,
			httpx.Chain(handler,
				httpx.AuthnMiddleware(r.verifier),
				httpx.RateLimitByUser(httpx.ModerateLimit),
			),
		)
	}
}

func (r *Router) registerDevices() {
	h := &DevicesHandler{DeviceService: r.DeviceService}

	r.Mux.Handle("GET /v1/2fa/devices",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/2fa/devices/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		SettingsService: r.SettingsService,
		UserService:     r.UserService,
		EnrollService:   r.EnrollService,
	}

	for pattern, handler := range map[string]http.HandlerFunc{
		"GET /v1/admin/2fa/settings":          h.HandleGetSettings,
		"PUT /v1/admin/2fa/settings":          h.HandleUpdateSettings,
		"PUT /v1/admin/users/{id}":            h.HandleUpsertUser,
		"DELETE /v1/admin/users/{id}":         h.HandleDeleteUser,
		"POST /v1/admin/users/{id}/2fa/reset": h.HandleResetUser2FA,
	} {
		r.Mux.Handle(pattern,
			httpx.Chain(handler,
				httpx.AuthnMiddleware(r.verifier),
				httpx.RequireAnyScope(adminScope),
				httpx.RateLimitByUser(httpx.ModerateLimit),
			),
		)
	}
}

func (r *Router) registerSystem() {
	// Health endpoints - monitoring may poll these frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
