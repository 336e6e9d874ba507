package image

import (
	"context"

	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai"
)

// Request is a validated render request: the prompt and one input image.
type Request struct {
	Prompt   string
	Image    []byte
	MimeType consts.MimeType
}

// Sender performs exactly one upstream generation call with the given token.
// Implementations return ErrNoImage when the upstream answered without an
// inline image, and an *UpstreamError for everything else.
type Sender interface {
	Name() string
	Send(ctx context.Context, request Request, token ai.Token) ([]byte, error)
}
