// ABOUTME: Derives a session expiry from a sign-in response
// ABOUTME: Prefers the API's expired field, then the token's exp claim, then a default TTL

package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storeops/catalog-console/models"
)

// SessionExpiry returns when the session issued by resp stops being valid.
func SessionExpiry(resp *models.SigninResponse, now time.Time, defaultTTL time.Duration) time.Time {
	if resp.Expired > 0 {
		return time.UnixMilli(resp.Expired)
	}
	if exp, ok := tokenExpiry(resp.Token); ok {
		return exp
	}
	return now.Add(defaultTTL)
}

// tokenExpiry reads the exp claim of a JWT without verifying it. The remote
// API is trusted to have issued the token; only its lifetime is needed here.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
