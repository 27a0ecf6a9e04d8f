package session

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-bank-client/bankapi"
)

// timestamp layouts accepted for the login response's created/expiration fields
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// tokenClaims reads iat/exp from a JWT access token without verifying it.
// Opaque tokens yield zero times.
func tokenClaims(accessToken string) (issuedAt, expiresAt time.Time) {
	claims := jwtlib.RegisteredClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, time.Time{}
	}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return issuedAt, expiresAt
}

// credentialFrom builds the credential for a successful login response.
// The expiration field wins over the token's exp claim; a zero ExpiresAt is
// left for the token store to floor.
func credentialFrom(resp *bankapi.TokenResponse, now time.Time) Credential {
	c := Credential{AccessToken: resp.AccessToken}

	claimIat, claimExp := tokenClaims(resp.AccessToken)

	if t, ok := parseTimestamp(resp.Expiration); ok {
		c.ExpiresAt = t
	} else {
		c.ExpiresAt = claimExp
	}

	if t, ok := parseTimestamp(resp.Created); ok {
		c.IssuedAt = t
	} else if !claimIat.IsZero() {
		c.IssuedAt = claimIat
	} else {
		c.IssuedAt = now
	}
	return c
}
