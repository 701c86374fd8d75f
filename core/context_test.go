package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	ctx = withGeneration(ctx, 7)

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(id int) {
			defer wg.Done()
			n, ok := getGeneration(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
			assert.True(t, ok, "Goroutine %d: getGeneration should return true", id)
			assert.Equal(t, 7, n, "Goroutine %d: generation should be 7", id)
		}(i)
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := withGeneration(base, 1)
	ctx2 := WithSuppressHeader(base)

	n, ok := getGeneration(ctx1)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	assert.False(t, shouldSuppressHeader(ctx1))

	n, ok = getGeneration(ctx2)
	assert.False(t, ok)
	assert.Equal(t, 0, n)
	assert.True(t, shouldSuppressHeader(ctx2))

	wrongType := context.WithValue(base, generationKey, "one")
	_, ok = getGeneration(wrongType)
	assert.False(t, ok)
	assert.False(t, shouldSuppressHeader(context.WithValue(base, suppressHeaderKey, "yes")))
}
