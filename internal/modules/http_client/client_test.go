package http_client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	type payload struct {
		Prompt string `json:"prompt"`
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewWithTimeout(0)
	require.Zero(t, c.HttpClient.Timeout)

	req, err := c.NewRequest(http.MethodPost, "http://example.com/v1beta/models/m:generateContent",
		WithHeader("x-goog-api-key", "k"),
		WithBody(payload{Prompt: "a cartoon cat"}),
		WithContext(ctx),
	)
	require.NoError(t, err)
	require.Equal(t, "k", req.Header.Get("x-goog-api-key"))
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))
	require.Equal(t, ctx, req.Context())
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"prompt":"a cartoon cat"}`, string(body))

	req, err = c.NewRequest(http.MethodPost, "http://example.com", WithBody(strings.NewReader("raw")))
	require.NoError(t, err)
	require.Empty(t, req.Header.Get("Content-Type"))

	require.Equal(t, 3*time.Second, NewWithTimeout(3*time.Second).HttpClient.Timeout)
}
