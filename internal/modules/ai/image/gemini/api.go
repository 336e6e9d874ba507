package gemini

import (
	"context"
	"net/http"
	"time"

	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai"
	"github.com/reusedev/render-relay/internal/modules/ai/image"
	"github.com/reusedev/render-relay/internal/modules/http_client"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"github.com/reusedev/render-relay/tools"
)

// Provider talks to the generateContent REST endpoint directly.
type Provider struct {
	BaseURL string
	Model   string
	Client  *http_client.HttpClient
	Parser  *FlashImageParser
}

func NewProvider(baseURL, model string, timeout time.Duration) *Provider {
	return &Provider{
		BaseURL: baseURL,
		Model:   model,
		Client:  http_client.NewWithTimeout(timeout),
		Parser:  NewFlashImageParser(),
	}
}

func (p *Provider) Name() string {
	return consts.TransportREST.String()
}

func (p *Provider) Send(ctx context.Context, request image.Request, token ai.Token) ([]byte, error) {
	content := FlashImageRequest{
		Model:      p.Model,
		Prompt:     request.Prompt,
		MimeType:   request.MimeType.String(),
		ImageBytes: request.Image,
	}
	req, err := p.Client.NewRequest(
		http.MethodPost,
		tools.FullURL(p.BaseURL, content.Path()),
		http_client.WithHeader("x-goog-api-key", token.Token),
		http_client.WithBody(content.Body()),
		http_client.WithContext(ctx),
	)
	if err != nil {
		return nil, &image.UpstreamError{Message: "build upstream request", Err: err}
	}
	reqAt := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &image.UpstreamError{Err: err}
	}
	defer resp.Body.Close()
	logs.FromContext(ctx).Debug().
		Str("token_desc", token.Desc).
		Str("model", p.Model).
		Str("path", content.Path()).
		Int("status_code", resp.StatusCode).
		Dur("req_consume_ms", time.Since(reqAt)).
		Msg("gemini request")
	return p.Parser.Parse(resp)
}
