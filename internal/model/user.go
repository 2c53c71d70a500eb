package model

import "time"

// User is a chat user keyed by phone number (E.164).
type User struct {
	ID                      string     `json:"id"`
	WhatsAppNumber          string     `json:"whatsapp_number"`
	VerificationCode        string     `json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`
	IsVerified              bool       `json:"is_verified"`
	PINHash                 string     `json:"-"`
	WalletID                string     `json:"wallet_id,omitempty"`
	WalletAddress           string     `json:"wallet_address,omitempty"`
	RegistrationCompleted   bool       `json:"registration_completed"`
	IsActive                bool       `json:"is_active"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// Registered reports whether the user finished onboarding and can pay.
func (u *User) Registered() bool {
	return u != nil && u.RegistrationCompleted && u.WalletID != "" && u.IsActive
}
