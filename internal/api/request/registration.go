package request

type StartRegistration struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164" example:"+14155550100"`
}

type VerifyCode struct {
	Code string `json:"code" validate:"required,code6"`
}

// SetPIN carries the plain PIN; it is hashed before it leaves the API.
type SetPIN struct {
	PIN   string `json:"pin" validate:"required,len=6,numeric"`
	Token string `json:"token" validate:"required"`
}
