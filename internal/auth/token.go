// Package auth issues and verifies session tokens and hashes credentials.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong algorithm, expired, malformed or missing claims.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload carried by every session token.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenOptions configures a TokenService.
type TokenOptions struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
	Issuer    string
	Audience  string
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// TokenService signs and verifies HMAC session tokens.
type TokenService struct {
	secret   []byte
	method   jwt.SigningMethod
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenService validates opts and builds a TokenService.
func NewTokenService(opts TokenOptions) (*TokenService, error) {
	if opts.Secret == "" {
		return nil, errors.New("token secret not configured")
	}
	if opts.TTL <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	var method jwt.SigningMethod
	switch opts.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", opts.Algorithm)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &TokenService{
		secret:   []byte(opts.Secret),
		method:   method,
		ttl:      opts.TTL,
		issuer:   opts.Issuer,
		audience: opts.Audience,
		now:      now,
	}, nil
}

// Issue creates a signed token for userID and returns it with its expiry.
func (t *TokenService) Issue(userID uint) (string, time.Time, error) {
	if userID == 0 {
		return "", time.Time{}, errors.New("cannot issue token for empty user id")
	}

	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if t.issuer != "" {
		claims.Issuer = t.issuer
	}
	if t.audience != "" {
		claims.Audience = jwt.ClaimStrings{t.audience}
	}

	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, algorithm and time claims of token and
// returns the user id it was issued for.
func (t *TokenService) Verify(token string) (uint, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	if claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	// Subject must agree with user_id when present.
	if claims.Subject != "" && claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// TTL returns the lifetime of tokens issued by t.
func (t *TokenService) TTL() time.Duration {
	return t.ttl
}
