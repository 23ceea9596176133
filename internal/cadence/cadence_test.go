package cadence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCycleTicks(t *testing.T) {
	assert.Equal(t, uint64(0), CycleTicks(0))
	assert.Equal(t, uint64(5333), CycleTicks(1))
	assert.Equal(t, uint64(16000), CycleTicks(3))
	assert.Equal(t, uint64(2000000), CycleTicks(375), "375 cycles are exactly two seconds")
}

func TestSchedulerFiresOncePerPeriod(t *testing.T) {
	clk := &ManualClock{}
	clk.Set(1000)
	s := NewScheduler(clk, time.Microsecond)
	assert.Equal(t, uint64(1000), s.Start())

	assert.False(t, s.Due(), "no time elapsed")

	clk.Advance(1)
	assert.True(t, s.Due())
	assert.False(t, s.Due())
	assert.Equal(t, uint64(1), s.Counter())

	clk.Advance(CycleTicks(1))
	assert.True(t, s.Due())
	assert.False(t, s.Due())
	assert.Equal(t, uint64(2), s.Counter())
}

func TestSchedulerCatchesUpAfterStall(t *testing.T) {
	clk := &ManualClock{}
	s := NewScheduler(clk, 0)
	s.Start()
	clk.Set(CycleTicks(10) + 1)
	fired := 0
	for s.Due() {
		fired++
	}
	assert.Equal(t, 11, fired)
	assert.Equal(t, uint64(11), s.Counter())
}

func TestSystemClockMonotonic(t *testing.T) {
	c := SystemClock()
	a := c.Now()
	time.Sleep(2 * time.Millisecond)
	assert.Greater(t, c.Now(), a)
}
