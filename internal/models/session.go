package models

import "time"

// Session is the authenticated state held by a token store.
// Tokens and User are present together or not at all.
type Session struct {
	Tokens AuthTokens `json:"tokens"`
	User   User       `json:"user"`
}

// Complete reports whether both halves of the session are populated.
func (s *Session) Complete() bool {
	return s != nil && s.Tokens.AccessToken != "" && s.User.Email != ""
}

// IsExpired checks if the access token has passed its expiry.
// An unknown expiry never counts as expired.
func (s *Session) IsExpired() bool {
	return !s.Tokens.ExpiresAt.IsZero() && time.Now().After(s.Tokens.ExpiresAt)
}

// WithTokens returns a copy carrying replacement tokens.
func (s Session) WithTokens(t AuthTokens) Session {
	s.Tokens = t
	return s
}
