// Package calendar implements the HTTP client for talking to
// OpenTimestamps calendar servers: POSTing a digest for timestamping
// and GETting back the sub-tree attesting to a previously submitted
// message.
package calendar

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/chronoseal/ots/utils"
)

// DefaultURLs is the compiled-in list of calendar servers used when a
// caller does not supply its own.
var DefaultURLs = []string{
	"https://alice.btc.calendar.opentimestamps.org",
	"https://bob.btc.calendar.opentimestamps.org",
	"https://finney.calendar.eternitywall.com",
	"https://btc.calendar.catallaxy.com",
}

// DefaultTimeout is the recommended per-request timeout for calendar
// calls (spec §5: "default recommended: 5s for calendars").
const DefaultTimeout = 5 * time.Second

var (
	// ErrorBadJWT is returned when a supplied bearer token does not parse
	// as a JWT.
	ErrorBadJWT = utils.NewValidationError("CALENDAR_BAD_JWT", "bearer token is not a well-formed JWT")
	// ErrorRequestError is returned when an http.Request could not be
	// constructed at all.
	ErrorRequestError = utils.NewNetworkError("CALENDAR_REQUEST_ERROR", "could not build calendar request")
	// ErrorNetworkError is returned for a transport-level failure (DNS,
	// TLS, timeout, connection refused).
	ErrorNetworkError = utils.NewNetworkError("CALENDAR_NETWORK_ERROR", "calendar request failed")
	// ErrorResponseReadError is returned when the response body could not
	// be read to completion.
	ErrorResponseReadError = utils.NewNetworkError("CALENDAR_RESPONSE_READ_ERROR", "could not read calendar response body")
)

// Client talks to a single calendar server.
type Client struct {
	httpClient *http.Client
	BaseURL    string
	// BearerToken, if non-empty, is sent as an "Authorization: Bearer"
	// header on every request. It is validated structurally (well-formed
	// JWT) by NewClientWithJWT but not re-verified on every call: the
	// calendar server is the one that checks signatures.
	BearerToken string
	Logger      zerolog.Logger
}

// NewClient returns a Client for baseURL with the given timeout (use
// DefaultTimeout if unsure).
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		BaseURL:    trimTrailingSlash(baseURL),
		Logger:     logger,
	}
}

// NewClientWithJWT returns a Client that authenticates with a bearer
// JWT. The token is parsed (without verifying its signature — that is
// the calendar's job) purely to reject an obviously malformed token
// before it is ever sent over the wire.
func NewClientWithJWT(baseURL string, timeout time.Duration, token string, logger zerolog.Logger) (*Client, error) {
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, jwt.MapClaims{}); err != nil {
		return nil, ErrorBadJWT.AddDetails(err.Error())
	}
	c := NewClient(baseURL, timeout, logger)
	c.BearerToken = token
	return c, nil
}

func trimTrailingSlash(url string) string {
	if len(url) > 0 && url[len(url)-1] == '/' {
		return url[:len(url)-1]
	}
	return url
}

// Digest POSTs seed to {baseURL}/digest and returns the bare-tree bytes
// from the response body.
func (c *Client) Digest(ctx context.Context, seed []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/digest", bytes.NewReader(seed))
}

// Timestamp GETs {baseURL}/timestamp/{hex(msg)} and returns the
// bare-tree bytes from the response body.
func (c *Client) Timestamp(ctx context.Context, msg []byte) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/timestamp/"+utils.HexLower(msg), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, ErrorRequestError.AddDetails(err.Error())
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/octet-stream")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}

	c.Logger.Debug().Str("method", method).Str("url", req.URL.String()).Msg("calendar request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrorNetworkError.AddDetails(req.URL.String() + ": " + err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrorResponseReadError.AddDetails(req.URL.String() + ": " + err.Error())
	}
	c.Logger.Trace().Int("status", resp.StatusCode).Int("bodyLen", len(respBody)).Msg("calendar response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.HTTPError{
			Status: resp.StatusCode,
			URL:    req.URL.String(),
			Method: method,
			Raw:    string(respBody),
		}
	}
	return respBody, nil
}
