package model

// NoticeKind selects the outbound chat template.
type NoticeKind string

const (
	NoticeVerificationCode    NoticeKind = "verification_code"
	NoticePINSetupLink        NoticeKind = "pin_setup_link"
	NoticeWelcome             NoticeKind = "welcome"
	NoticeConfirmationRequest NoticeKind = "confirmation_request"
	NoticeReceipt             NoticeKind = "receipt"
	NoticeCancelled           NoticeKind = "cancelled"
	NoticeError               NoticeKind = "error"
	NoticeReply               NoticeKind = "reply"
)

// Error notice variants.
const (
	ErrorGeneral             = "general"
	ErrorInsufficientFunds   = "insufficient_funds"
	ErrorInvalidRecipient    = "invalid_recipient"
	ErrorInvalidAmount       = "invalid_amount"
	ErrorNotRegistered       = "not_registered"
	ErrorRateLimit           = "rate_limit"
	ErrorVerificationTimeout = "verification_timeout"
	ErrorPINTimeout          = "pin_timeout"
	ErrorConfirmationTimeout = "confirmation_timeout"
	ErrorTransferFailed      = "transfer_failed"
	ErrorProvisionFailed     = "provision_failed"
)

// NoticeData carries template inputs. Unused fields are left empty.
type NoticeData struct {
	Code          string `json:"code,omitempty"`
	Link          string `json:"link,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Balance       string `json:"balance,omitempty"`
	Recipient     string `json:"recipient,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	TxHash        string `json:"tx_hash,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
	ErrorKind     string `json:"error_kind,omitempty"`
	Text          string `json:"text,omitempty"`
}
