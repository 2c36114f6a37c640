// Package jwks maintains the process-wide cache of the identity provider's
// public keys. Keys are fetched once at startup (best-effort) and refilled
// on miss; the refill is guarded so concurrent misses fetch once.
package jwks

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache resolves key ids to ES256 public keys.
type Cache struct {
	url          string
	fetchTimeout time.Duration
	client       *http.Client
	logger       *zap.Logger

	mu   sync.RWMutex
	keys map[string]*ecdsa.PublicKey

	// Serializes refreshes so a burst of unknown-kid requests produces
	// one fetch.
	refreshMu sync.Mutex
}

// New creates the cache and primes it. A failed initial fetch only logs;
// the first request with an unknown kid retries.
func New(url string, fetchTimeout time.Duration, logger *zap.Logger) *Cache {
	c := &Cache{
		url:          url,
		fetchTimeout: fetchTimeout,
		client:       &http.Client{Timeout: fetchTimeout},
		logger:       logger,
		keys:         make(map[string]*ecdsa.PublicKey),
	}
	if url != "" {
		if err := c.refresh(context.Background()); err != nil {
			logger.Warn("initial JWKS fetch failed", zap.Error(err))
		}
	}
	return c
}

// Get resolves a key id, refreshing the set once on a miss. A key still
// unknown after the refresh is reported as not found, never as a server
// failure.
func (c *Cache) Get(ctx context.Context, kid string) (*ecdsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	c.mu.RUnlock()
	if ok {
		return key, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another request may have refreshed while this one waited.
	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := c.refresh(ctx); err != nil {
		c.logger.Warn("JWKS refresh failed", zap.Error(err))
		return nil, fmt.Errorf("unknown key id %q", kid)
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

type jwkDocument struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

func (c *Cache) refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("build JWKS request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch JWKS: status %d", resp.StatusCode)
	}

	var doc jwkDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode JWKS: %w", err)
	}

	keys := make(map[string]*ecdsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		key, err := parseECKey(k)
		if err != nil {
			c.logger.Warn("skipping unusable JWKS entry", zap.String("kid", k.Kid), zap.Error(err))
			continue
		}
		keys[k.Kid] = key
	}

	c.mu.Lock()
	c.keys = keys
	c.mu.Unlock()
	c.logger.Debug("JWKS refreshed", zap.Int("keys", len(keys)))
	return nil
}

// parseECKey decodes one P-256 JWK entry into an ECDSA public key.
func parseECKey(k jwk) (*ecdsa.PublicKey, error) {
	if k.Kty != "EC" {
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}
	if k.Crv != "P-256" {
		return nil, fmt.Errorf("unsupported curve %q", k.Crv)
	}
	x, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("decode x coordinate: %w", err)
	}
	y, err := base64.RawURLEncoding.DecodeString(k.Y)
	if err != nil {
		return nil, fmt.Errorf("decode y coordinate: %w", err)
	}

	key := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}
	if !key.Curve.IsOnCurve(key.X, key.Y) {
		return nil, fmt.Errorf("point not on curve")
	}
	return key, nil
}
