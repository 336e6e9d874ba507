package ai

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTokenManagerEmpty(t *testing.T) {
	m, err := NewTokenManager(nil)
	require.ErrorIs(t, err, ErrNoToken)
	require.Nil(t, m)
}

func TestNextRoundRobin(t *testing.T) {
	m, err := NewTokenManager([]string{"sk-1", "sk-2", "sk-3"})
	require.NoError(t, err)

	tokens := make([]string, 0)
	for i := 0; i < 2*m.Len(); i++ {
		tokens = append(tokens, m.Next().Token)
	}
	require.Equal(t, []string{"sk-1", "sk-2", "sk-3", "sk-1", "sk-2", "sk-3"}, tokens)
	require.Equal(t, 0, m.Cursor())

	m.Next()
	require.Equal(t, 1, m.Cursor())
}

func TestNextSingleToken(t *testing.T) {
	m, err := NewTokenManager([]string{"only"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.Equal(t, "only", m.Next().Token)
		require.Equal(t, 0, m.Cursor())
	}
}

func TestNextConcurrent(t *testing.T) {
	m, err := NewTokenManager([]string{"sk-1", "sk-2", "sk-3", "sk-4"})
	require.NoError(t, err)

	const workers, perWorker = 50, 40
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts = make(map[int]int)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				token := m.Next()
				mu.Lock()
				counts[token.Index]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// a lost update between read and advance would skew these counts
	total := workers * perWorker
	for i := 0; i < m.Len(); i++ {
		require.Equal(t, total/m.Len(), counts[i], "index %d", i)
	}
	require.Equal(t, 0, m.Cursor())
}
