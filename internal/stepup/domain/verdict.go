package domain

// Status is the resolved step-up state for a (user, session) pair.
type Status string

const (
	StatusError         Status = "error"
	StatusNotRequired   Status = "not_required"
	StatusVerified      Status = "verified"
	StatusTrustedDevice Status = "trusted_device"
	StatusGracePeriod   Status = "grace_period"
	StatusSetupComplete Status = "setup_complete"
	StatusSetupRequired Status = "setup_required"
)

// Action is the single next step the caller must take.
type Action string

const (
	ActionLogin       Action = "login"
	ActionProceed     Action = "proceed"
	ActionRetry       Action = "retry"
	ActionRemindSetup Action = "remind_setup"
	ActionVerify      Action = "verify"
	ActionSetup       Action = "setup"
)

// Verdict pairs the resolved status with its required action. Message is set
// for remind_setup and retry so the caller has something to surface.
type Verdict struct {
	Status  Status `json:"status"`
	Action  Action `json:"action"`
	Message string `json:"message,omitempty"`
}
