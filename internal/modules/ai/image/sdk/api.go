// Package sdk sends render requests through the official Gen AI Go SDK.
package sdk

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai"
	"github.com/reusedev/render-relay/internal/modules/ai/image"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"google.golang.org/genai"
)

type Provider struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client

	lock    sync.Mutex
	clients map[string]*genai.Client // keyed by token
}

func NewProvider(baseURL, model string, timeout time.Duration) *Provider {
	return &Provider{
		BaseURL:    baseURL,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
		clients:    make(map[string]*genai.Client),
	}
}

func (p *Provider) Name() string {
	return consts.TransportSDK.String()
}

func (p *Provider) client(ctx context.Context, token ai.Token) (*genai.Client, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if c, ok := p.clients[token.Token]; ok {
		return c, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:     token.Token,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.HTTPClient,
	}
	if p.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSuffix(p.BaseURL, "/") + "/"}
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.clients[token.Token] = c
	return c, nil
}

func (p *Provider) Send(ctx context.Context, request image.Request, token ai.Token) ([]byte, error) {
	client, err := p.client(ctx, token)
	if err != nil {
		return nil, &image.UpstreamError{Message: "create genai client", Err: err}
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(request.Prompt),
			genai.NewPartFromBytes(request.Image, request.MimeType.String()),
		}, genai.RoleUser),
	}
	reqAt := time.Now()
	resp, err := client.Models.GenerateContent(ctx, p.Model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return nil, &image.UpstreamError{Err: err}
	}
	logs.FromContext(ctx).Debug().
		Str("token_desc", token.Desc).
		Str("model", p.Model).
		Dur("req_consume_ms", time.Since(reqAt)).
		Msg("genai request")

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, image.ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, image.ErrNoImage
}
