package identity

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// claims read from the access token payload for immediate UI state; the
// token is never verified client-side, the server stays the authority
type Claims struct {
	Subject     int64
	Email       string
	Permissions []string
	ExpiresAt   time.Time
}

// JSON shape of the access token payload segment
type tokenPayload struct {
	Email string   `json:"email"`
	Perms []string `json:"perms"`
	jwt.RegisteredClaims
}

// tolerate both padded and unpadded base64url payload segments
var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// decodes claims from an access token without verifying the signature;
// returns nil on any malformed structure, base64, or JSON - callers treat
// nil as "no usable claims", not as a failure
func Decode(token string) *Claims {
	payload := &tokenPayload{}

	if _, _, err := parser.ParseUnverified(token, payload); err != nil {
		return nil
	}

	// sub arrives as a string per RFC 7519; a non-numeric subject decodes
	// to 0 and the session layer discards identities without an id
	subject, err := strconv.ParseInt(payload.Subject, 10, 64)
	if err != nil {
		subject = 0
	}

	claims := &Claims{
		Subject:     subject,
		Email:       payload.Email,
		Permissions: payload.Perms,
	}

	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}

	return claims
}
