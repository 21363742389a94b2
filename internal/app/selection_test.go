package app

import (
	"sync"
	"testing"

	"yutai_notification_bot/internal/domain/benefit"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Toggle(t *testing.T) {
	sel := NewSelection()

	assert.True(t, sel.Toggle(5))
	assert.True(t, sel.Has(5))
	assert.True(t, sel.Toggle(2))
	assert.Equal(t, []benefit.ID{2, 5}, sel.IDs())

	assert.False(t, sel.Toggle(5))
	assert.False(t, sel.Has(5))
	assert.Equal(t, 1, sel.Len())

	sel.Clear()
	assert.Zero(t, sel.Len())
	assert.Empty(t, sel.IDs())
}

func TestSelection_ConcurrentToggle(t *testing.T) {
	sel := NewSelection()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id benefit.ID) {
			defer wg.Done()
			sel.Toggle(id)
		}(benefit.ID(i))
	}
	wg.Wait()
	assert.Equal(t, 50, sel.Len())
}
