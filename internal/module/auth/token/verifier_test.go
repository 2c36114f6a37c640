package token

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

const issuer = "https://id.example.test"

type staticKeys map[string]*ecdsa.PublicKey

func (s staticKeys) Get(_ context.Context, kid string) (*ecdsa.PublicKey, error) {
	key, ok := s[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return key, nil
}

func newVerifier(t *testing.T, legacyEnabled bool) (*Verifier, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	keys := staticKeys{"key-1": &key.PublicKey}
	return NewVerifier(keys, issuer, legacyEnabled, "legacy-secret"), key
}

func signES256(t *testing.T, key *ecdsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func providerClaims(subject uuid.UUID) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   issuer,
		"sub":   subject.String(),
		"email": "ana@example.test",
		"role":  "USER",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func TestVerifyES256(t *testing.T) {
	v, key := newVerifier(t, false)
	subject := uuid.New()

	principal, err := v.Verify(context.Background(), signES256(t, key, "key-1", providerClaims(subject)))
	require.NoError(t, err)
	require.NotNil(t, principal.Subject)
	assert.Equal(t, subject, *principal.Subject)
	assert.Nil(t, principal.LegacyUserID)
	assert.Equal(t, "ana@example.test", principal.Email)
	assert.Equal(t, "USER", principal.Role)
}

func TestVerifyRejectsExpired(t *testing.T) {
	v, key := newVerifier(t, false)
	claims := providerClaims(uuid.New())
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	_, err := v.Verify(context.Background(), signES256(t, key, "key-1", claims))
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestVerifyRejectsUnknownKid(t *testing.T) {
	v, key := newVerifier(t, false)
	_, err := v.Verify(context.Background(), signES256(t, key, "key-2", providerClaims(uuid.New())))
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	v, key := newVerifier(t, false)
	claims := providerClaims(uuid.New())
	claims["iss"] = "https://evil.example.test"

	_, err := v.Verify(context.Background(), signES256(t, key, "key-1", claims))
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestVerifyRejectsNonUUIDSubject(t *testing.T) {
	v, key := newVerifier(t, false)
	claims := providerClaims(uuid.New())
	claims["sub"] = "user-42"

	_, err := v.Verify(context.Background(), signES256(t, key, "key-1", claims))
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestVerifyLegacySecondChance(t *testing.T) {
	v, _ := newVerifier(t, true)
	signed, err := v.IssueLegacy(42, "old@example.test", time.Hour)
	require.NoError(t, err)

	principal, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	require.NotNil(t, principal.LegacyUserID)
	assert.Equal(t, uint(42), *principal.LegacyUserID)
	assert.Nil(t, principal.Subject)
}

func TestVerifyLegacyDisabled(t *testing.T) {
	enabled, _ := newVerifier(t, true)
	signed, err := enabled.IssueLegacy(42, "old@example.test", time.Hour)
	require.NoError(t, err)

	disabled, _ := newVerifier(t, false)
	_, err = disabled.Verify(context.Background(), signed)
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestVerifyLegacyExpired(t *testing.T) {
	v, _ := newVerifier(t, true)
	signed, err := v.IssueLegacy(42, "old@example.test", -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestVerifyRejectsAlgorithmConfusion(t *testing.T) {
	// An HS256 token signed with the legacy secret but shaped like a
	// provider token must not pass the ES256 path.
	v, _ := newVerifier(t, false)
	claims := providerClaims(uuid.New())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = "key-1"
	signed, err := token.SignedString([]byte("legacy-secret"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}

func TestVerifyGarbage(t *testing.T) {
	v, _ := newVerifier(t, true)
	_, err := v.Verify(context.Background(), "not-a-token")
	assert.True(t, apperr.Is(err, apperr.CodeAuthInvalid))
}
