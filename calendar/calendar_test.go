package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestPostsSeedAndReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/digest", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte{0x00, 0x01})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, DefaultTimeout, zerolog.Nop())
	body, err := c.Digest(context.Background(), []byte("seed"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01}, body)
}

func TestTimestampGetsHexPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, DefaultTimeout, zerolog.Nop())
	_, err := c.Timestamp(context.Background(), []byte{0xab, 0xcd})
	require.NoError(t, err)
	assert.Equal(t, "/timestamp/abcd", gotPath)
}

func TestNonSuccessStatusIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down for maintenance"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, DefaultTimeout, zerolog.Nop())
	_, err := c.Digest(context.Background(), []byte("seed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestBearerTokenSentWhenSet(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	token := "eyJhbGciOiJub25lIn0.eyJzdWIiOiIxIn0."
	c, err := NewClientWithJWT(srv.URL, DefaultTimeout, token, zerolog.Nop())
	require.NoError(t, err)
	_, err = c.Digest(context.Background(), []byte("seed"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestNewClientWithJWTRejectsMalformedToken(t *testing.T) {
	_, err := NewClientWithJWT("https://example.com", DefaultTimeout, "not-a-jwt", zerolog.Nop())
	assert.ErrorIs(t, err, ErrorBadJWT)
}
