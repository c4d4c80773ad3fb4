package bridge

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionStore_ZeroValueEmpty(t *testing.T) {
	var s SessionStore
	id, ok := s.Current()
	require.False(t, ok)
	require.Empty(t, id)
}

func TestSessionStore_SetOverwritesAndClear(t *testing.T) {
	s := NewSessionStore("first")
	id, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "first", id)

	s.Set("second")
	id, _ = s.Current()
	require.Equal(t, "second", id)

	s.Clear()
	_, ok = s.Current()
	require.False(t, ok)
}

func TestNewSessionStore_EmptySeed(t *testing.T) {
	_, ok := NewSessionStore("").Current()
	require.False(t, ok)
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	s := &SessionStore{}
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(strconv.Itoa(i))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Current()
		}()
	}
	wg.Wait()

	id, ok := s.Current()
	require.True(t, ok)
	n, err := strconv.Atoi(id)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 0)
	require.Less(t, n, 50)
}
