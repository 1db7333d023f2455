package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLedgerStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Peek for missing key returns zero", func(t *testing.T) {
		store := New()
		usage, err := store.Peek(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, 0, usage)
	})

	t.Run("Peek does not mutate usage", func(t *testing.T) {
		store := New()
		for i := 0; i < 3; i++ {
			_, err := store.Peek(ctx, "u1")
			require.NoError(t, err)
		}
		usage, err := store.Peek(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, usage)
	})

	t.Run("IncrementIfBelow counts up to the ceiling", func(t *testing.T) {
		store := New()
		const ceiling = 3

		for i := 1; i <= ceiling; i++ {
			usage, incremented, err := store.IncrementIfBelow(ctx, "u1", ceiling)
			require.NoError(t, err)
			assert.True(t, incremented)
			assert.Equal(t, i, usage)
		}

		usage, incremented, err := store.IncrementIfBelow(ctx, "u1", ceiling)
		require.NoError(t, err)
		assert.False(t, incremented, "ceiling must not be exceeded")
		assert.Equal(t, ceiling, usage)
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := New()
		_, _, err := store.IncrementIfBelow(ctx, "u1", 1)
		require.NoError(t, err)

		usage, err := store.Peek(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, 0, usage)
	})
}

func TestInMemoryLedgerStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := New()
	const ceiling = 20
	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, _, err := store.IncrementIfBelow(ctx, "concurrent", ceiling)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	usage, err := store.Peek(ctx, "concurrent")
	require.NoError(t, err)
	assert.Equal(t, ceiling, usage, "usage must stop exactly at the ceiling under contention")
}
