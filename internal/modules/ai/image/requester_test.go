package image

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai"
	"github.com/reusedev/render-relay/internal/modules/cache"
	"github.com/reusedev/render-relay/internal/modules/metrics"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	lock   sync.Mutex
	data   []byte
	err    error
	tokens []string
	got    []Request
}

func (s *stubSender) Name() string { return "stub" }

func (s *stubSender) Send(_ context.Context, request Request, token ai.Token) ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tokens = append(s.tokens, token.Token)
	s.got = append(s.got, request)
	return s.data, s.err
}

func newManager(t *testing.T, tokens ...string) *ai.TokenManager {
	m, err := ai.NewTokenManager(tokens)
	require.NoError(t, err)
	return m
}

func TestRelay_Succeed(t *testing.T) {
	sender := &stubSender{data: []byte("png-bytes")}
	relay := NewRelay(newManager(t, "key-1", "key-2"), sender, WithCollector(metrics.NewCollector("test")))

	request := Request{Prompt: "a cartoon cat", Image: []byte{1, 2, 3}, MimeType: consts.MimePNG}
	for i := 0; i < 3; i++ {
		data, err := relay.Do(context.Background(), request)
		require.NoError(t, err)
		require.Equal(t, []byte("png-bytes"), data)
	}
	require.Equal(t, []string{"key-1", "key-2", "key-1"}, sender.tokens)
	require.Equal(t, request, sender.got[0])
}

func TestRelay_NoImage(t *testing.T) {
	for _, sender := range []*stubSender{{err: ErrNoImage}, {data: nil}} {
		tokens := newManager(t, "key-1", "key-2")
		relay := NewRelay(tokens, sender)
		_, err := relay.Do(context.Background(), Request{Prompt: "p"})
		require.ErrorIs(t, err, ErrNoImage)
		require.Equal(t, 1, tokens.Cursor())
	}
}

func TestRelay_UpstreamError(t *testing.T) {
	tokens := newManager(t, "key-1", "key-2", "key-3")
	failures := cache.NewFailureTracker(time.Minute)
	sender := &stubSender{err: errors.New("dial tcp: connection refused")}
	relay := NewRelay(tokens, sender, WithFailureTracker(failures))

	_, err := relay.Do(context.Background(), Request{Prompt: "p"})
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Contains(t, upstreamErr.Error(), "connection refused")
	require.Equal(t, 1, tokens.Cursor())
	require.Equal(t, 1, failures.Count("0"))

	sender.err = &UpstreamError{StatusCode: 429, Message: "upstream returned status 429"}
	_, err = relay.Do(context.Background(), Request{Prompt: "p"})
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, 429, upstreamErr.StatusCode)
	require.Equal(t, 2, tokens.Cursor())
}

func TestRelay_ConcurrentRotation(t *testing.T) {
	tokens := newManager(t, "key-1", "key-2", "key-3")
	sender := &stubSender{data: []byte("x")}
	relay := NewRelay(tokens, sender)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = relay.Do(context.Background(), Request{Prompt: "p"})
		}()
	}
	wg.Wait()

	counts := make(map[string]int)
	for _, token := range sender.tokens {
		counts[token]++
	}
	require.Equal(t, map[string]int{"key-1": 10, "key-2": 10, "key-3": 10}, counts)
	require.Equal(t, 0, tokens.Cursor())
}
