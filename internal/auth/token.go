package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// defaultSessionTTL is used when the codec is constructed with a
// non-positive TTL.
const defaultSessionTTL = time.Hour

// SessionClaims extends JWT standard claims with the account identity
// snapshot. There is deliberately no field that could carry the password
// hash: Issue takes an Identity, not an Account.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Identity returns the identity snapshot embedded in the claims.
func (c *SessionClaims) Identity() Identity {
	return Identity{
		AccountID: c.AccountID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Role:      c.Role,
	}
}

// Codec issues and verifies session tokens. It holds the signing secret and
// TTL from configuration — both are fixed at construction, so the codec is
// a pure function pair with no other state.
//
// The same TTL drives the token expiry and (in the web layer) the cookie
// Max-Age, both in seconds, so the two cannot disagree.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a session token codec with the given secret and TTL.
// A non-positive TTL falls back to one hour.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the session lifetime tokens are issued with.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed session token embedding the identity snapshot,
// with absolute expiry now + TTL. Tokens are always HS256.
func (c *Codec) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
		AccountID: id.AccountID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Role:      id.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify validates and parses a session token, returning the embedded
// claims. Failures map onto the codec's error taxonomy:
//
//   - ErrTokenExpired: the embedded expiry has passed
//   - ErrSignatureInvalid: signed with a different secret, or an algorithm
//     other than HS256 (downgrade/forgery attempts land here)
//   - ErrTokenMalformed: anything that doesn't parse as a token at all
func (c *Codec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	if claims.AccountID == 0 {
		return nil, fmt.Errorf("%w: missing account id", ErrTokenMalformed)
	}

	if !IsValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenMalformed, claims.Role)
	}

	return claims, nil
}

// classifyTokenError maps jwt parse errors onto the codec's sentinel errors,
// preserving the underlying cause for logs.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}
