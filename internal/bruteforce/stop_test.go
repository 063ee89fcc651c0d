package bruteforce

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStop_TriggerWinsOnce(t *testing.T) {
	var stop Stop
	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if stop.Trigger() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.True(t, stop.Stopped())
}

func TestStop_HaltBlocksTrigger(t *testing.T) {
	var stop Stop
	assert.False(t, stop.Stopped())

	stop.Halt()
	assert.True(t, stop.Stopped())
	assert.False(t, stop.Trigger())
}
