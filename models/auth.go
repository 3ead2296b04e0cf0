// ABOUTME: Auth request/response models for the remote admin API
// ABOUTME: Defines credentials, sign-in and check payloads, and the client session

package models

import (
	"fmt"
	"time"
)

// Credentials is the username/password pair submitted by the login form.
// It is never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SigninResponse is returned by POST /admin/signin
type SigninResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	UID     string `json:"uid,omitempty"`
	Token   string `json:"token"`
	Expired int64  `json:"expired"` // epoch milliseconds
}

// CheckResponse is returned by POST /api/user/check
type CheckResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid,omitempty"`
	Message string `json:"message,omitempty"`
}

// Session is the client-side credential issued on login
type Session struct {
	Token     string    `json:"token" yaml:"token"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// Empty reports whether the session carries no token.
func (s Session) Empty() bool {
	return s.Token == ""
}

// Expired reports whether the session is unusable at now.
// A zero expiry never expires; an empty session is always expired.
func (s Session) Expired(now time.Time) bool {
	if s.Empty() {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// APIError is a non-2xx answer from the remote API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote API returned status %d", e.Status)
	}
	return fmt.Sprintf("remote API returned status %d: %s", e.Status, e.Message)
}

// ErrorResponse is the JSON error body written by the console API
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
