package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadOnlyContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, isReadOnly(ctx))
	assert.True(t, isReadOnly(withReadOnly(ctx)))

	// A parent context is not affected
	_ = withReadOnly(ctx)
	assert.False(t, isReadOnly(ctx))

	// Values of the wrong type are ignored
	assert.False(t, isReadOnly(context.WithValue(ctx, readOnlyKey, "yes")))
}

func TestReadOnlyContextConcurrentAccess(t *testing.T) {
	ctx := withReadOnly(context.Background())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, isReadOnly(ctx))
		}()
	}
	wg.Wait()
}
