package sdk

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai"
	"github.com/reusedev/render-relay/internal/modules/ai/image"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, body string, gotKey *string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		*gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestProvider_Send(t *testing.T) {
	output := []byte("rendered")
	var key string
	server := newUpstream(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"},{"inlineData":{"mimeType":"image/png","data":"`+
		base64.StdEncoding.EncodeToString(output)+`"}}]}}]}`, &key)

	p := NewProvider(server.URL, "test-model", 0)
	data, err := p.Send(context.Background(), image.Request{Prompt: "a cartoon cat", Image: []byte("in"), MimeType: consts.MimePNG},
		ai.NewToken("sdk-key-0123456789", 0))
	require.NoError(t, err)
	require.Equal(t, output, data)
	require.Equal(t, "sdk-key-0123456789", key)
	require.Len(t, p.clients, 1)
}

func TestProvider_SendNoImage(t *testing.T) {
	var key string
	server := newUpstream(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"sorry"}]}}]}`, &key)

	p := NewProvider(server.URL, "test-model", 0)
	_, err := p.Send(context.Background(), image.Request{Prompt: "p", Image: []byte("in"), MimeType: consts.MimePNG},
		ai.NewToken("k", 0))
	require.ErrorIs(t, err, image.ErrNoImage)
}
