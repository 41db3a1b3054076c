package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDelaySequence(t *testing.T) {
	p := NewPolicy()

	want := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
		16000 * time.Millisecond,
		30000 * time.Millisecond,
		30000 * time.Millisecond,
	}
	for i, expected := range want {
		assert.Equal(t, expected, p.NextDelay(i+1), "attempt %d", i+1)
	}
}

func TestNextDelayClampsBadAttempt(t *testing.T) {
	p := NewPolicy()
	assert.Equal(t, p.Floor, p.NextDelay(0))
	assert.Equal(t, p.Floor, p.NextDelay(-3))
}

func TestExhausted(t *testing.T) {
	p := NewPolicy()
	assert.False(t, p.Exhausted(1))
	assert.False(t, p.Exhausted(5))
	assert.True(t, p.Exhausted(6))

	unlimited := Policy{Floor: time.Second, Cap: time.Minute}
	assert.False(t, unlimited.Exhausted(1000))
}
