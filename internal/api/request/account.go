package request

type VerifyPIN struct {
	PIN string `json:"pin" validate:"required,len=6,numeric"`
}

// SendMessage addresses a phone number, with or without the whatsapp: prefix.
type SendMessage struct {
	To      string `json:"to" validate:"required" example:"whatsapp:+14155550100"`
	Message string `json:"message" validate:"required,max=1600"`
}
