package stepupsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal Go client for the step-up verification service. The
// platform backend calls it with the end user's bearer token on each request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Status resolves the caller's step-up verdict. deviceToken may be empty.
func (c *Client) Status(ctx context.Context, bearer, deviceToken string) (VerdictResponse, error) {
	var out VerdictResponse
	err := c.do(ctx, http.MethodGet, "/v1/2fa/status", bearer, deviceToken, nil, &out)
	return out, err
}

// SendCode requests a delivered verification code.
func (c *Client) SendCode(ctx context.Context, bearer string, req SendCodeRequest) (SendCodeResponse, error) {
	var out SendCodeResponse
	err := c.do(ctx, http.MethodPost, "/v1/2fa/codes/send", bearer, "", req, &out)
	return out, err
}

// Verify submits a verification code for the current session.
func (c *Client) Verify(ctx context.Context, bearer string, req VerifyRequest) (VerifyResponse, error) {
	var out VerifyResponse
	err := c.do(ctx, http.MethodPost, "/v1/2fa/verify", bearer, "", req, &out)
	return out, err
}

// VerifyAndTrust submits a code with remember_device set and additionally
// returns the trusted-device token from the response cookie. The token is
// empty when the service did not trust the device.
func (c *Client) VerifyAndTrust(ctx context.Context, bearer string, req VerifyRequest) (VerifyResponse, string, error) {
	req.RememberDevice = true
	var out VerifyResponse
	cookies, err := c.doCookies(ctx, http.MethodPost, "/v1/2fa/verify", bearer, "", req, &out)
	if err != nil {
		return out, "", err
	}
	for _, ck := range cookies {
		if ck.Name == "trusted_device" {
			return out, ck.Value, nil
		}
	}
	return out, "", nil
}

// ClearSession drops the session's step-up verification, e.g. on logout.
func (c *Client) ClearSession(ctx context.Context, bearer string) error {
	return c.do(ctx, http.MethodDelete, "/v1/2fa/session", bearer, "", nil, nil)
}

// EnrollTOTP begins authenticator-app enrollment.
func (c *Client) EnrollTOTP(ctx context.Context, bearer string) (TOTPEnrollResponse, error) {
	var out TOTPEnrollResponse
	err := c.do(ctx, http.MethodPost, "/v1/2fa/totp/enroll", bearer, "", nil, &out)
	return out, err
}

// ActivateTOTP proves the authenticator works and enables two-factor.
func (c *Client) ActivateTOTP(ctx context.Context, bearer, code string) (BackupCodesResponse, error) {
	var out BackupCodesResponse
	err := c.do(ctx, http.MethodPost, "/v1/2fa/totp/activate", bearer, "", ActivateRequest{Code: code}, &out)
	return out, err
}

// SetupDelivery begins sms or email enrollment and sends the first code.
func (c *Client) SetupDelivery(ctx context.Context, bearer string, req SetupDeliveryRequest) (SendCodeResponse, error) {
	var out SendCodeResponse
	err := c.do(ctx, http.MethodPost, "/v1/2fa/setup/delivery", bearer, "", req, &out)
	return out, err
}

// ActivateDelivery confirms the delivered code and enables two-factor.
func (c *Client) ActivateDelivery(ctx context.Context, bearer, code string) (BackupCodesResponse, error) {
	var out BackupCodesResponse
	err := c.do(ctx, http.MethodPost, "/v1/2fa/setup/activate", bearer, "", ActivateRequest{Code: code}, &out)
	return out, err
}

// RegenerateBackupCodes replaces all backup codes and returns the new set.
func (c *Client) RegenerateBackupCodes(ctx context.Context, bearer string) (BackupCodesResponse, error) {
	var out BackupCodesResponse
	err := c.do(ctx, http.MethodPost, "/v1/2fa/backup-codes", bearer, "", nil, &out)
	return out, err
}

// ListDevices returns the account's trusted devices.
func (c *Client) ListDevices(ctx context.Context, bearer string) (DevicesResponse, error) {
	var out DevicesResponse
	err := c.do(ctx, http.MethodGet, "/v1/2fa/devices", bearer, "", nil, &out)
	return out, err
}

// RevokeDevice removes one trusted device.
func (c *Client) RevokeDevice(ctx context.Context, bearer, deviceID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/2fa/devices/"+deviceID, bearer, "", nil, nil)
}

// GetSettings reads the global policy (admin credential required).
func (c *Client) GetSettings(ctx context.Context, bearer string) (Settings, error) {
	var out Settings
	err := c.do(ctx, http.MethodGet, "/v1/admin/2fa/settings", bearer, "", nil, &out)
	return out, err
}

// UpdateSettings replaces the global policy (admin credential required).
func (c *Client) UpdateSettings(ctx context.Context, bearer string, settings Settings) (Settings, error) {
	var out Settings
	err := c.do(ctx, http.MethodPut, "/v1/admin/2fa/settings", bearer, "", settings, &out)
	return out, err
}

// DeleteUser removes a user projection (admin credential required).
func (c *Client) DeleteUser(ctx context.Context, bearer, userID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/users/"+userID, bearer, "", nil, nil)
}

// ResetUser2FA disables a user's two-factor state (admin credential required).
func (c *Client) ResetUser2FA(ctx context.Context, bearer, userID string) error {
	return c.do(ctx, http.MethodPost, "/v1/admin/users/"+userID+"/2fa/reset", bearer, "", nil, nil)
}

// Livez checks the liveness probe.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", "", nil, &out)
	return out, err
}

// Readyz checks the readiness probe.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", "", "", nil, &out)
	return out, err
}

// UpsertUser pushes a platform user projection (admin credential required).
func (c *Client) UpsertUser(ctx context.Context, bearer, userID string, req UpsertUserRequest) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPut, "/v1/admin/users/"+userID, bearer, "", req, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, bearer, deviceToken string, in, out any) error {
	_, err := c.doCookies(ctx, method, path, bearer, deviceToken, in, out)
	return err
}

func (c *Client) doCookies(ctx context.Context, method, path, bearer, deviceToken string, in, out any) ([]*http.Cookie, error) {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if deviceToken != "" {
		req.AddCookie(&http.Cookie{Name: "trusted_device", Value: deviceToken})
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = ErrorCodeServerError
			apiErr.Description = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return nil, apiErr
	}

	if out == nil {
		return resp.Cookies(), nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Cookies(), nil
}
