package core

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/arcagent/arcagent/internal/model"
)

var validate = validator.New()

// CheckPhone returns ErrInvalidInput unless phone is an E.164 number.
// Phones become part of workflow IDs and visibility queries, so every
// router entry point checks them first.
func CheckPhone(phone string) error {
	if err := validate.Var(phone, "required,e164"); err != nil {
		return fmt.Errorf("%w: phone number %q is not in E.164 format", ErrInvalidInput, phone)
	}
	return nil
}

// CheckPaymentOwner returns ErrInvalidInput unless wfID is one of the
// payment instances of phone.
func CheckPaymentOwner(phone, wfID string) error {
	if err := CheckPhone(phone); err != nil {
		return err
	}
	prefix := model.PaymentWorkflowPrefix(phone)
	if !strings.HasPrefix(wfID, prefix) || len(wfID) == len(prefix) {
		return fmt.Errorf("%w: %s is not a payment of %s", ErrInvalidInput, wfID, phone)
	}
	return nil
}
