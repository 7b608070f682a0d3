package ups

import (
	"context"
	"sync"
	"time"

	"github.com/parcelgrid/rateshop/pkg/carrier"
	"golang.org/x/sync/singleflight"
)

// tokenExpiryBuffer is subtracted from the carrier's expires_in so a
// token is refreshed before it can expire mid-request.
const tokenExpiryBuffer = 5 * time.Minute

// cachedToken is an immutable snapshot of one successful token fetch.
// Refreshes replace the pointer; a cached value is never mutated.
type cachedToken struct {
	token     string
	expiresAt time.Time
}

func (t *cachedToken) valid(now time.Time) bool {
	return t != nil && now.Before(t.expiresAt)
}

// TokenManager owns the OAuth token lifecycle for one UPS client:
// acquisition, caching, expiry, request deduplication, and invalidation.
type TokenManager struct {
	api APIClient

	mu     sync.RWMutex
	cached *cachedToken

	sf singleflight.Group
}

// NewTokenManager creates a token manager on top of the given API client.
func NewTokenManager(api APIClient) *TokenManager {
	return &TokenManager{api: api}
}

// GetToken returns a valid access token, fetching a new one only when the
// cache is empty or stale. Concurrent callers needing a refresh collapse
// into a single upstream fetch and share its result. A failed fetch is
// not cached; the next caller simply retries.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	cached := m.cached
	m.mu.RUnlock()

	if cached.valid(time.Now()) {
		return cached.token, nil
	}

	result, err, _ := m.sf.Do("token", func() (interface{}, error) {
		// Another caller may have refreshed while we waited on the flight.
		m.mu.RLock()
		cached := m.cached
		m.mu.RUnlock()

		if cached.valid(time.Now()) {
			return cached.token, nil
		}
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Invalidate clears the cached token unconditionally, forcing the next
// GetToken to fetch a fresh one. An in-flight refresh is not cancelled;
// its result lands in the cache as usual.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	m.cached = nil
	m.mu.Unlock()
}

// refresh fetches a token, validates the response shape, and stores the
// result. A token is never cached from a malformed response.
func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	resp, err := m.api.FetchToken(ctx)
	if err != nil {
		return "", err
	}

	if err := validateTokenResponse(resp); err != nil {
		return "", err
	}

	secs, err := resp.ExpiresIn.Int64()
	if err != nil || secs <= 0 {
		return "", carrier.NewValidationError(carrierName, "token response field expires_in must be a positive number")
	}

	token := &cachedToken{
		token:     resp.AccessToken,
		expiresAt: time.Now().Add(time.Duration(secs)*time.Second - tokenExpiryBuffer),
	}

	m.mu.Lock()
	m.cached = token
	m.mu.Unlock()

	return token.token, nil
}
