package model

// RegistrationState is the position of a registration instance in its lifecycle.
type RegistrationState string

const (
	RegCreated             RegistrationState = "created"
	RegCodeSent            RegistrationState = "code_sent"
	RegCodeVerified        RegistrationState = "code_verified"
	RegPINLinkSent         RegistrationState = "pin_link_sent"
	RegPINSet              RegistrationState = "pin_set"
	RegWalletProvisioned   RegistrationState = "wallet_provisioned"
	RegCompleted           RegistrationState = "completed"
	RegVerificationTimeout RegistrationState = "verification_timeout"
	RegPINTimeout          RegistrationState = "pin_timeout"
	RegProvisionFailed     RegistrationState = "provision_failed"
)

// Terminal reports whether no further transition is possible.
func (s RegistrationState) Terminal() bool {
	switch s {
	case RegCompleted, RegVerificationTimeout, RegPINTimeout, RegProvisionFailed:
		return true
	}
	return false
}

// RegistrationParams starts a registration instance.
type RegistrationParams struct {
	PhoneNumber string `json:"phone_number"`
	// AutoVerify skips the code round-trip when the channel already proves
	// ownership of the number.
	AutoVerify bool `json:"auto_verify"`
	// PINSetupBaseURL is where the PIN setup page lives; the token is appended.
	PINSetupBaseURL string `json:"pin_setup_base_url"`
}

type RegistrationResult struct {
	Success       bool   `json:"success"`
	PhoneNumber   string `json:"phone_number"`
	WalletID      string `json:"wallet_id,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Error         string `json:"error,omitempty"`
}

// RegistrationStatus is the read-only snapshot returned by the status query.
type RegistrationStatus struct {
	State         RegistrationState `json:"state"`
	CodeVerified  bool              `json:"code_verified"`
	PINSet        bool              `json:"pin_set"`
	WalletCreated bool              `json:"wallet_created"`
}

type VerifyCodeSignal struct {
	Code string `json:"code"`
}

type SetPINSignal struct {
	PINHash string `json:"pin_hash"`
	Token   string `json:"token"`
}
