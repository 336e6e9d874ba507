package ai

import (
	"errors"
	"sync"
)

var ErrNoToken = errors.New("token manager: no tokens configured")

// TokenManager hands out tokens in strict round-robin order. Every call to Next
// consumes one rotation step, whatever happens to the request that used it.
type TokenManager struct {
	Token  []Token
	Lock   *sync.Mutex
	cursor int
}

func NewTokenManager(tokens []string) (*TokenManager, error) {
	if len(tokens) == 0 {
		return nil, ErrNoToken
	}
	t := &TokenManager{
		Token: make([]Token, 0, len(tokens)),
		Lock:  &sync.Mutex{},
	}
	for i, v := range tokens {
		t.Token = append(t.Token, NewToken(v, i))
	}
	return t, nil
}

// Next returns the token under the cursor and advances it modulo the pool size.
// The read and the advance happen under one lock, so overlapping callers never
// share an index.
func (t *TokenManager) Next() Token {
	t.Lock.Lock()
	defer t.Lock.Unlock()
	token := t.Token[t.cursor]
	t.cursor = (t.cursor + 1) % len(t.Token)
	return token
}

// Cursor is the index the next call to Next will return.
func (t *TokenManager) Cursor() int {
	t.Lock.Lock()
	defer t.Lock.Unlock()
	return t.cursor
}

func (t *TokenManager) Len() int {
	return len(t.Token)
}
