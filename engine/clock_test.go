package engine

import (
	"testing"
	"time"
)

func TestStepClockMeasuresSinceLastRestart(t *testing.T) {
	clock := NewStepClock()

	time.Sleep(20 * time.Millisecond)
	elapsed := clock.Restart()
	if elapsed < 20*time.Millisecond {
		t.Errorf("Expected at least 20ms, got %v", elapsed)
	}

	// Restart resets the reference point
	second := clock.Restart()
	if second > elapsed {
		t.Errorf("Immediate restart reported %v, more than the first interval %v", second, elapsed)
	}
	if second < 0 {
		t.Errorf("Negative elapsed %v", second)
	}
}
