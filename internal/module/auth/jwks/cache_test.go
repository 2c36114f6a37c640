package jwks

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serveKeys(t *testing.T, fetches *atomic.Int32, keys ...jwk) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fetches != nil {
			fetches.Add(1)
		}
		require.NoError(t, json.NewEncoder(w).Encode(jwkDocument{Keys: keys}))
	}))
}

func encodeKey(t *testing.T, kid string, key *ecdsa.PublicKey) jwk {
	t.Helper()
	return jwk{
		Kty: "EC",
		Crv: "P-256",
		Kid: kid,
		X:   base64.RawURLEncoding.EncodeToString(key.X.Bytes()),
		Y:   base64.RawURLEncoding.EncodeToString(key.Y.Bytes()),
	}
}

func TestGetFetchesAndCaches(t *testing.T) {
	private, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	var fetches atomic.Int32
	server := serveKeys(t, &fetches, encodeKey(t, "key-1", &private.PublicKey))
	defer server.Close()

	cache := New(server.URL, time.Second, zap.NewNop())
	assert.Equal(t, int32(1), fetches.Load(), "constructor primes the cache")

	got, err := cache.Get(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, 0, private.PublicKey.X.Cmp(got.X))

	// Cached: no second fetch.
	_, err = cache.Get(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestGetRefreshesOnMiss(t *testing.T) {
	oldKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	newKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	served := []jwk{encodeKey(t, "old", &oldKey.PublicKey)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(jwkDocument{Keys: served}))
	}))
	defer server.Close()

	cache := New(server.URL, time.Second, zap.NewNop())

	// Provider rotates; the next miss picks the new key up.
	served = []jwk{encodeKey(t, "rotated", &newKey.PublicKey)}
	got, err := cache.Get(context.Background(), "rotated")
	require.NoError(t, err)
	assert.Equal(t, 0, newKey.PublicKey.X.Cmp(got.X))
}

func TestGetUnknownKidIsAnError(t *testing.T) {
	private, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	server := serveKeys(t, nil, encodeKey(t, "key-1", &private.PublicKey))
	defer server.Close()

	cache := New(server.URL, time.Second, zap.NewNop())
	_, err = cache.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestGetSurvivesProviderOutage(t *testing.T) {
	cache := New("http://127.0.0.1:1", 100*time.Millisecond, zap.NewNop())
	_, err := cache.Get(context.Background(), "any")
	assert.Error(t, err, "unknown kid, not a panic or hang")
}

func TestParseECKeyRejectsBadEntries(t *testing.T) {
	private, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	good := encodeKey(t, "k", &private.PublicKey)

	rsaKind := good
	rsaKind.Kty = "RSA"
	_, err = parseECKey(rsaKind)
	assert.Error(t, err)

	wrongCurve := good
	wrongCurve.Crv = "P-384"
	_, err = parseECKey(wrongCurve)
	assert.Error(t, err)

	badPoint := good
	badPoint.Y = base64.RawURLEncoding.EncodeToString([]byte{1, 2, 3})
	_, err = parseECKey(badPoint)
	assert.Error(t, err)

	_, err = parseECKey(good)
	assert.NoError(t, err)
}
