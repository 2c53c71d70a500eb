package model

// Machine-readable failure codes carried in workflow results.
const (
	ErrCodeVerificationTimeout = "verification_timeout"
	ErrCodePINSetupTimeout     = "pin_setup_timeout"
	ErrCodeUserNotRegistered   = "user_not_registered"
	ErrCodeInsufficientFunds   = "insufficient_funds"
	ErrCodeCancelledByUser     = "cancelled_by_user"
	ErrCodeConfirmationTimeout = "confirmation_timeout"
)

// Application error types for non-retryable failures.
const (
	ErrTypeClient                = "CLIENT_ERROR"
	ErrTypeTransferDenied        = "TRANSFER_DENIED"
	ErrTypeUnknownRecipient      = "UNKNOWN_RECIPIENT"
	ErrTypeProvisionFailed       = "PROVISION_FAILED"
	ErrTypeTransferFailed        = "TRANSFER_FAILED"
	ErrTypeTransferStatusUnknown = "TRANSFER_STATUS_UNKNOWN"
	ErrTypeInvalidRecipient      = "INVALID_RECIPIENT"
)
