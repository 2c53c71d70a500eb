package request

import (
	"encoding/json"

	"github.com/arcagent/arcagent/internal/model"
)

// StartPayment takes the amount as a decimal dollar value, e.g. 20 or 20.50.
type StartPayment struct {
	PhoneNumber string      `json:"phone_number" validate:"required,e164" example:"+14155550100"`
	Amount      json.Number `json:"amount" validate:"required" swaggertype:"number" example:"20.50"`
	Recipient   string      `json:"recipient" validate:"required,max=128" example:"+14155550101"`
}

// AmountCents converts Amount to cents.
func (p StartPayment) AmountCents() (int64, error) {
	return model.ParseAmount(p.Amount.String())
}
