package stepupsdk

import "time"

// VerdictResponse is the status resolver's answer for one request.
type VerdictResponse struct {
	Status  string `json:"status"`
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
}

// SendCodeRequest asks for a delivered verification code. Method is optional;
// empty means the account's primary method.
type SendCodeRequest struct {
	Method string `json:"method,omitempty"`
}

// SendCodeResponse confirms which method the code went out over.
type SendCodeResponse struct {
	Method string `json:"method"`
}

// VerifyRequest submits a verification code for the current session.
type VerifyRequest struct {
	Code           string `json:"code"`
	RememberDevice bool   `json:"remember_device,omitempty"`
	DeviceName     string `json:"device_name,omitempty"`
}

// VerifyResponse reports a successful verification.
type VerifyResponse struct {
	Verified             bool   `json:"verified"`
	Method               string `json:"method"`
	UsedBackupCode       bool   `json:"used_backup_code,omitempty"`
	BackupCodesRemaining int    `json:"backup_codes_remaining"`
}

// TOTPEnrollResponse carries the freshly minted TOTP secret, shown once.
type TOTPEnrollResponse struct {
	Secret  string `json:"secret"`
	URL     string `json:"url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// ActivateRequest finishes a method setup with a proving code.
type ActivateRequest struct {
	Code string `json:"code"`
}

// SetupDeliveryRequest starts sms or email setup.
type SetupDeliveryRequest struct {
	Method string `json:"method"`
	Phone  string `json:"phone,omitempty"`
}

// BackupCodesResponse hands out plaintext backup codes, shown once.
type BackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

// Device is one trusted device, token omitted.
type Device struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DevicesResponse lists the account's trusted devices.
type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

// Settings is the global two-factor policy.
type Settings struct {
	SystemEnabled    bool `json:"system_enabled"`
	RequireAdminOnly bool `json:"require_admin_only"`

	TOTPEnabled  bool `json:"totp_enabled"`
	SMSEnabled   bool `json:"sms_enabled"`
	EmailEnabled bool `json:"email_enabled"`

	RememberDeviceEnabled bool `json:"remember_device_enabled"`

	GracePeriodDays    int `json:"grace_period_days"`
	RememberDeviceDays int `json:"remember_device_days"`
	BackupCodesCount   int `json:"backup_codes_count"`

	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// UpsertUserRequest pushes a platform user projection into the service.
type UpsertUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
}

// User is the service's view of a platform user.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthChecks itemizes dependency health for readiness probes.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
