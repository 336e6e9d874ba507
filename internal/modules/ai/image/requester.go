package image

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai"
	"github.com/reusedev/render-relay/internal/modules/cache"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"github.com/reusedev/render-relay/internal/modules/metrics"
)

// Relay forwards one validated request upstream with the next pool token.
type Relay struct {
	tokens    *ai.TokenManager
	sender    Sender
	failures  *cache.FailureTracker
	collector *metrics.Collector
}

type RelayOption func(r *Relay)

func WithFailureTracker(f *cache.FailureTracker) RelayOption {
	return func(r *Relay) {
		r.failures = f
	}
}

func WithCollector(c *metrics.Collector) RelayOption {
	return func(r *Relay) {
		r.collector = c
	}
}

func NewRelay(tokens *ai.TokenManager, sender Sender, opts ...RelayOption) *Relay {
	r := &Relay{
		tokens: tokens,
		sender: sender,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do selects a token, calls the sender once and returns the image bytes.
// Errors are ErrNoImage or *UpstreamError. Nothing is retried.
func (r *Relay) Do(ctx context.Context, request Request) ([]byte, error) {
	logger := logs.FromContext(ctx)
	token := r.tokens.Next()
	r.collector.RecordSelection(token.Index)

	reqAt := time.Now()
	data, err := r.sender.Send(ctx, request, token)
	consume := time.Since(reqAt)

	if err == nil && len(data) == 0 {
		err = ErrNoImage
	}
	if err != nil {
		err = classify(err)
		outcome := consts.OutcomeFailed
		if errors.Is(err, ErrNoImage) {
			outcome = consts.OutcomeNoImage
		}
		r.collector.RecordRelay(r.sender.Name(), outcome.String(), consume)
		failures := r.failures.Record(strconv.Itoa(token.Index))
		logger.Error().Err(err).
			Str("transport", r.sender.Name()).
			Str("token_desc", token.Desc).
			Int("token_index", token.Index).
			Int("recent_failures", failures).
			Dur("req_consume_ms", consume).
			Msg("image relay failed")
		return nil, err
	}

	r.collector.RecordRelay(r.sender.Name(), consts.OutcomeSucceeded.String(), consume)
	logger.Info().
		Str("transport", r.sender.Name()).
		Int("token_index", token.Index).
		Str("mime_type", request.MimeType.String()).
		Int("image_bytes", len(data)).
		Dur("req_consume_ms", consume).
		Msg("image relay succeeded")
	return data, nil
}
