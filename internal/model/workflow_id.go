package model

import "fmt"

const (
	RegistrationWorkflowName = "RegistrationWorkflow"
	PaymentWorkflowName      = "PaymentWorkflow"
)

// Signal and query names shared by workflows and the router.
const (
	SignalVerifyCode     = "verify_code"
	SignalSetPIN         = "set_pin"
	SignalConfirmPayment = "confirm_payment"
	SignalCancelPayment  = "cancel_payment"

	QueryStatus = "get_status"
)

// RegistrationWorkflowID returns the single registration instance ID for a phone.
func RegistrationWorkflowID(phone string) string {
	return "registration-" + phone
}

// PaymentWorkflowPrefix is the common prefix of all payment instance IDs for a phone.
func PaymentWorkflowPrefix(phone string) string {
	return "payment-" + phone + "-"
}

// PaymentWorkflowID returns the payment instance ID for a phone and nonce.
func PaymentWorkflowID(phone, nonce string) string {
	return fmt.Sprintf("%s%s", PaymentWorkflowPrefix(phone), nonce)
}
