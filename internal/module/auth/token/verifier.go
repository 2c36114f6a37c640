// Package token verifies bearer credentials: ES256 tokens from the
// identity provider, with an optional second-chance HS256 path kept for
// the migration off password accounts.
package token

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

// KeySource resolves a signing key id to its public key. The JWKS cache
// is the production implementation.
type KeySource interface {
	Get(ctx context.Context, kid string) (*ecdsa.PublicKey, error)
}

// Principal is the verified identity a token carries, before resolution to
// an internal user row. Exactly one of Subject / LegacyUserID is set.
type Principal struct {
	// Subject is the identity provider's subject uuid (ES256 path).
	Subject *uuid.UUID
	// LegacyUserID is the internal numeric id (HS256 path).
	LegacyUserID *uint

	Email string
	Role  string
}

// Verifier validates raw bearer tokens.
type Verifier struct {
	keys          KeySource
	issuer        string
	legacyEnabled bool
	legacySecret  []byte
}

// NewVerifier creates the token verifier.
func NewVerifier(keys KeySource, issuer string, legacyEnabled bool, legacySecret string) *Verifier {
	return &Verifier{
		keys:          keys,
		issuer:        issuer,
		legacyEnabled: legacyEnabled,
		legacySecret:  []byte(legacySecret),
	}
}

// Verify checks the token and extracts its principal. The ES256 path runs
// first; the legacy HS256 path is strictly second-chance and only when
// enabled. Every failure mode is AUTH_INVALID.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Principal, error) {
	principal, es256Err := v.verifyES256(ctx, raw)
	if es256Err == nil {
		return principal, nil
	}

	if v.legacyEnabled {
		if principal, err := v.verifyLegacy(raw); err == nil {
			return principal, nil
		}
	}
	return nil, apperr.Wrap(apperr.CodeAuthInvalid, "invalid token", es256Err)
}

func (v *Verifier) verifyES256(ctx context.Context, raw string) (*Principal, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("token has no kid header")
			}
			return v.keys.Get(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	if v.issuer != "" {
		if iss, _ := claims.GetIssuer(); iss != v.issuer {
			return nil, fmt.Errorf("unexpected issuer %q", iss)
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	subject, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("subject is not a uuid: %w", err)
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &Principal{Subject: &subject, Email: email, Role: role}, nil
}

func (v *Verifier) verifyLegacy(raw string) (*Principal, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) { return v.legacySecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	rawUID, ok := claims["uid"].(float64)
	if !ok || rawUID <= 0 {
		return nil, fmt.Errorf("token has no uid claim")
	}
	uid := uint(rawUID)

	email, _ := claims["email"].(string)
	return &Principal{LegacyUserID: &uid, Email: email}, nil
}

// IssueLegacy signs an HS256 token for the deprecated password login.
func (v *Verifier) IssueLegacy(userID uint, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.legacySecret)
}
