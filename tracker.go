package saml

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TrackedRequest is the payload RequestTracker signs: the outbound
// request's own ID, plus whatever URI the caller wants to return the user
// to once the round-trip completes. Encoding this as RelayState lets a
// caller recover the originating AuthnRequest ID for InResponseTo
// correlation without server-side session storage.
type TrackedRequest struct {
	ID                string `json:"id"`
	SAMLInitiationURI string `json:"uri,omitempty"`
}

type trackedRequestClaims struct {
	jwt.RegisteredClaims
	TrackedRequest
}

// RequestTracker signs and verifies TrackedRequests as compact JWTs, so a
// binding can stash one opaque string as RelayState and recover the
// original AuthnRequest ID without server-side session storage.
type RequestTracker struct {
	secretKey []byte
	maxAge    time.Duration
}

// NewRequestTracker builds a RequestTracker. secret signs and verifies
// every token; maxAge bounds how long a token remains acceptable to
// Decode.
func (sp *SPDescriptor) NewRequestTracker(secret []byte, maxAge time.Duration) *RequestTracker {
	return &RequestTracker{secretKey: secret, maxAge: maxAge}
}

// Encode signs tr and returns the resulting compact JWT.
func (t *RequestTracker) Encode(tr TrackedRequest) (string, error) {
	now := TimeNow()
	claims := trackedRequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.maxAge)),
		},
		TrackedRequest: tr,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secretKey)
}

// Decode verifies and parses a token produced by Encode. It returns an
// error for a bad signature, a malformed token, or one past maxAge.
func (t *RequestTracker) Decode(token string) (*TrackedRequest, error) {
	claims := &trackedRequestClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("saml: invalid tracked request token")
	}
	return &claims.TrackedRequest, nil
}
