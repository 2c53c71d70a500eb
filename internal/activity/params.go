package activity

import "github.com/arcagent/arcagent/internal/model"

// CreateUserParams holds parameters for CreateUser.
type CreateUserParams struct {
	PhoneNumber string
	AutoVerify  bool
}

// CreateUserResult describes the user row after CreateUser. VerificationCode
// is empty when the number is already verified.
type CreateUserResult struct {
	VerificationCode      string
	IsVerified            bool
	RegistrationCompleted bool
	WalletID              string
	WalletAddress         string
}

type VerifyUserCodeParams struct {
	PhoneNumber string
	Code        string
}

type UpdateUserPINParams struct {
	PhoneNumber string
	PINHash     string
}

type VerifyUserPINParams struct {
	PhoneNumber string
	PIN         string
}

// VerifyUserPINResult reports a PIN check. Reason is set when Verified is
// false: PINReasonUserNotFound, PINReasonNotSet or PINReasonMismatch.
type VerifyUserPINResult struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

const (
	PINReasonUserNotFound = "user_not_found"
	PINReasonNotSet       = "pin_not_set"
	PINReasonMismatch     = "invalid_pin"
)

type UpdateUserWalletParams struct {
	PhoneNumber   string
	WalletID      string
	WalletAddress string
}

// CreateTransactionParams holds parameters for CreateTransaction. ID is
// chosen by the caller so retries insert at most one row.
type CreateTransactionParams struct {
	ID               string
	UserID           string
	WorkflowID       string
	AmountCents      int64
	Recipient        string
	RecipientAddress string
	Description      string
}

type RecordTransferParams struct {
	TransactionID string
	TransferID    string
}

// UpdateTransactionStatusParams moves a pending transaction to a terminal status.
type UpdateTransactionStatusParams struct {
	ID     string
	Status string
	TxHash string
}

type LogMessageParams struct {
	UserID     string
	Direction  string
	Body       string
	MessageSID string
	Intent     string
	WorkflowID string
}

type SendNoticeParams struct {
	PhoneNumber string
	Kind        model.NoticeKind
	Data        model.NoticeData
	WorkflowID  string
}

type CreateWalletParams struct {
	UserID         string
	IdempotencyKey string
}

type WalletResult struct {
	WalletID   string
	Address    string
	Blockchain string
}

type ResolveRecipientResult struct {
	Address string
}

type InitiateTransferParams struct {
	WalletID       string
	Destination    string
	AmountCents    int64
	IdempotencyKey string
}

type TransferResult struct {
	TransferID string
	Status     string
	TxHash     string
}
