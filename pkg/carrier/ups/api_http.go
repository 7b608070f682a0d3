package ups

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/parcelgrid/rateshop/pkg/carrier"
)

// ratingPath is the Rating API resource, relative to the base URL.
const ratingPath = "/rating/v1/Rate"

// userAgent identifies this client to UPS.
const userAgent = "parcelgrid-rateshop/1.0"

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	oauthURL     string
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	OAuthURL     string
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		oauthURL:     cfg.OAuthURL,
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchToken performs the OAuth2 client-credentials exchange. Every
// failure on this path surfaces as an authentication error: without a
// token the caller cannot proceed regardless of the underlying cause.
func (c *HTTPAPIClient) FetchToken(ctx context.Context) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, carrier.NewAuthenticationError(carrierName, "failed to create token request").WithCause(err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, carrier.NewAuthenticationError(carrierName, "token request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.parseTokenError(resp)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, carrier.NewValidationError(carrierName, "failed to decode token response").WithCause(err)
	}
	return &token, nil
}

// parseTokenError extracts the OAuth error description from a failed
// token exchange.
func (c *HTTPAPIClient) parseTokenError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var oauthErr struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	msg := fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)
	if err := json.Unmarshal(body, &oauthErr); err == nil {
		if oauthErr.ErrorDescription != "" {
			msg = oauthErr.ErrorDescription
		} else if oauthErr.Error != "" {
			msg = oauthErr.Error
		}
	}

	return carrier.NewAuthenticationError(carrierName, msg).WithStatusCode(resp.StatusCode)
}

// RateShipments submits a shipment to the UPS Rating API.
func (c *HTTPAPIClient) RateShipments(ctx context.Context, token string, wireReq *RatingRequest) (*RatingResponse, error) {
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, carrier.NewValidationError(carrierName, "failed to marshal rate request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ratingPath, bytes.NewReader(body))
	if err != nil {
		return nil, carrier.NewNetworkError(carrierName, "failed to create rate request").WithCause(err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, carrier.NewNetworkError(carrierName, "rate request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.transformError(resp)
	}

	var rating RatingResponse
	if err := json.NewDecoder(resp.Body).Decode(&rating); err != nil {
		return nil, carrier.NewValidationError(carrierName, "failed to decode rate response").WithCause(err)
	}
	return &rating, nil
}

// transformError maps a non-2xx rating response onto the error taxonomy:
// 429 becomes a rate-limit error carrying the Retry-After hint when it
// parses as a non-negative integer, 401 and 403 become authentication
// errors, and everything else is a carrier API error with a best-effort
// message from the body.
func (c *HTTPAPIClient) transformError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		rlErr := carrier.NewRateLimitError(carrierName, "rate limit exceeded").WithStatusCode(resp.StatusCode)
		if after := resp.Header.Get("Retry-After"); after != "" {
			if secs, err := strconv.Atoi(after); err == nil && secs >= 0 {
				rlErr = rlErr.WithRetryAfter(secs)
			}
		}
		return rlErr

	case http.StatusUnauthorized, http.StatusForbidden:
		return carrier.NewAuthenticationError(carrierName, apiMessage(body)).WithStatusCode(resp.StatusCode)

	default:
		return carrier.NewCarrierAPIError(carrierName, apiMessage(body)).WithStatusCode(resp.StatusCode)
	}
}

// apiMessage pulls a human-readable message out of an error body, trying
// the field names UPS responses are known to use.
func apiMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error", "errorDescription"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return "carrier request failed"
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
