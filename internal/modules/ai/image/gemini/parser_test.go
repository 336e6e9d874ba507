package gemini

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/reusedev/render-relay/internal/modules/ai/image"
	"github.com/stretchr/testify/require"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestFlashImageParser_Parse(t *testing.T) {
	parser := NewFlashImageParser()
	payload := []byte("\x89PNG\r\n\x1a\nfake")
	b64 := base64.StdEncoding.EncodeToString(payload)

	t.Run("camelCase inline data", func(t *testing.T) {
		body := `{"candidates":[{"content":{"parts":[{"text":"here you go"},{"inlineData":{"mimeType":"image/png","data":"` + b64 + `"}}]}}]}`
		data, err := parser.Parse(newResponse(http.StatusOK, body))
		require.NoError(t, err)
		require.Equal(t, payload, data)
	})

	t.Run("snake_case inline data", func(t *testing.T) {
		body := `{"candidates":[{"content":{"parts":[{"inline_data":{"mime_type":"image/png","data":"` + b64 + `"}}]}}]}`
		data, err := parser.Parse(newResponse(http.StatusOK, body))
		require.NoError(t, err)
		require.Equal(t, payload, data)
	})

	t.Run("first image part wins", func(t *testing.T) {
		other := base64.StdEncoding.EncodeToString([]byte("second"))
		body := `{"candidates":[{"content":{"parts":[{"inlineData":{"data":""}},{"inlineData":{"data":"` + b64 + `"}},{"inlineData":{"data":"` + other + `"}}]}}]}`
		data, err := parser.Parse(newResponse(http.StatusOK, body))
		require.NoError(t, err)
		require.Equal(t, payload, data)
	})

	t.Run("only the first candidate is scanned", func(t *testing.T) {
		body := `{"candidates":[{"content":{"parts":[{"text":"no image"}]}},{"content":{"parts":[{"inlineData":{"data":"` + b64 + `"}}]}}]}`
		_, err := parser.Parse(newResponse(http.StatusOK, body))
		require.ErrorIs(t, err, image.ErrNoImage)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := parser.Parse(newResponse(http.StatusOK, `{"candidates":[]}`))
		require.ErrorIs(t, err, image.ErrNoImage)
	})

	t.Run("error status", func(t *testing.T) {
		body := `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`
		_, err := parser.Parse(newResponse(http.StatusBadRequest, body))
		var upstreamErr *image.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
		require.Equal(t, "upstream returned status 400 (INVALID_ARGUMENT): API key not valid.", upstreamErr.Error())
	})

	t.Run("error status with plain body", func(t *testing.T) {
		_, err := parser.Parse(newResponse(http.StatusBadGateway, "bad gateway"))
		require.EqualError(t, err, "upstream returned status 502: bad gateway")
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := parser.Parse(newResponse(http.StatusOK, "<html>"))
		var upstreamErr *image.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		require.Contains(t, upstreamErr.Error(), "malformed upstream response")
	})

	t.Run("malformed base64", func(t *testing.T) {
		body := `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"%%%"}}]}}]}`
		_, err := parser.Parse(newResponse(http.StatusOK, body))
		require.ErrorContains(t, err, "malformed image data")
	})
}
