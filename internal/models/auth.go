package models

import "time"

// OTPType selects which flow a one-time code belongs to.
type OTPType string

const (
	OTPRegistration      OTPType = "registration"
	OTPPasswordReset     OTPType = "password_reset"
	OTPEmailVerification OTPType = "email_verification"
	OTPPhoneVerification OTPType = "phone_verification"
)

// OTPTypes lists every accepted OTPType in declaration order.
var OTPTypes = []OTPType{OTPRegistration, OTPPasswordReset, OTPEmailVerification, OTPPhoneVerification}

// User is the profile record returned by the auth endpoints.
type User struct {
	ID             string `json:"id,omitempty" yaml:"id,omitempty"`
	Email          string `json:"email" yaml:"email"`
	FirstName      string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone          string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Company        string `json:"company,omitempty" yaml:"company,omitempty"`
	BusinessType   string `json:"business_type,omitempty" yaml:"business_type,omitempty"`
	State          string `json:"state,omitempty" yaml:"state,omitempty"`
	City           string `json:"city,omitempty" yaml:"city,omitempty"`
	EmailConfirmed bool   `json:"email_confirmed,omitempty" yaml:"email_confirmed,omitempty"`
}

// DisplayName prefers the full name and falls back to the email address.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Email
}

// AuthTokens is the credential pair persisted by the token store.
type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// SessionPayload is the "session" object of login, verify and refresh responses.
// expires_at is unix seconds.
type SessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// Tokens converts the payload, deriving the expiry from expires_in when
// expires_at is missing.
func (p SessionPayload) Tokens(now time.Time) AuthTokens {
	t := AuthTokens{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
	switch {
	case p.ExpiresAt > 0:
		t.ExpiresAt = time.Unix(p.ExpiresAt, 0).UTC()
	case p.ExpiresIn > 0:
		t.ExpiresAt = now.Add(time.Duration(p.ExpiresIn) * time.Second).UTC()
	}
	return t
}

type SignupRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Company         string `json:"company,omitempty"`
	BusinessType    string `json:"business_type,omitempty"`
	State           string `json:"state,omitempty"`
	City            string `json:"city,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResendOTPRequest struct {
	Email string  `json:"email"`
	Type  OTPType `json:"type"`
}

type VerifyOTPRequest struct {
	Token string  `json:"token"`
	Email string  `json:"email"`
	Type  OTPType `json:"type"`
}

type ResetPasswordRequest struct {
	AccessToken     string `json:"access_token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
