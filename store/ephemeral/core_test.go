package ephemeral

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCoreStore_SetGet(t *testing.T) {
	s := newCoreStore[string](10, time.Hour, nil)
	defer s.close()

	require.NoError(t, s.set("k", "v", time.Minute))
	v, ok := s.get("k", false)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = s.get("missing", false)
	assert.False(t, ok)
}

func TestCoreStore_KeyTooLong(t *testing.T) {
	s := newCoreStore[string](10, time.Hour, nil)
	defer s.close()

	err := s.set(strings.Repeat("a", maxKeyLength+1), "v", time.Minute)
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestCoreStore_Full(t *testing.T) {
	s := newCoreStore[int](2, time.Hour, nil)
	defer s.close()

	require.NoError(t, s.set("a", 1, time.Minute))
	require.NoError(t, s.set("b", 2, time.Minute))
	assert.ErrorIs(t, s.set("c", 3, time.Minute), ErrStoreFull)

	// Overwriting an existing key is allowed at capacity.
	assert.NoError(t, s.set("a", 10, time.Minute))
}

func TestCoreStore_Expiry(t *testing.T) {
	s := newCoreStore[string](10, time.Hour, nil)
	defer s.close()

	require.NoError(t, s.set("k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, ok := s.get("k", false)
	assert.False(t, ok)
	_, ok = s.take("k")
	assert.False(t, ok)
}

func TestCoreStore_TouchExtendsLifetime(t *testing.T) {
	s := newCoreStore[string](10, time.Hour, nil)
	defer s.close()

	require.NoError(t, s.set("k", "v", 100*time.Millisecond))
	for i := 0; i < 4; i++ {
		time.Sleep(40 * time.Millisecond)
		_, ok := s.get("k", true)
		require.True(t, ok, "touch %d", i)
	}
}

func TestCoreStore_TakeIsSingleUse(t *testing.T) {
	s := newCoreStore[string](10, time.Hour, nil)
	defer s.close()

	require.NoError(t, s.set("k", "v", time.Minute))
	v, ok := s.take("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = s.take("k")
	assert.False(t, ok)
}

func TestCoreStore_SweepEvicts(t *testing.T) {
	var evicted []string
	s := newCoreStore[string](10, time.Hour, func(k string, _ string) {
		evicted = append(evicted, k)
	})
	defer s.close()

	require.NoError(t, s.set("old", "v", time.Millisecond))
	require.NoError(t, s.set("new", "v", time.Hour))

	n := s.sweep(time.Now().Add(time.Second))
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"old"}, evicted)
	assert.Equal(t, 1, s.len())
}

func TestCoreStore_CleanupLoop(t *testing.T) {
	s := newCoreStore[string](10, 10*time.Millisecond, nil)
	defer s.close()

	require.NoError(t, s.set("k", "v", time.Millisecond))
	assert.Eventually(t, func() bool { return s.len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCoreStore_CloseIsIdempotent(t *testing.T) {
	s := newCoreStore[string](10, time.Hour, nil)
	s.close()
	s.close()
}
