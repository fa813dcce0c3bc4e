package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("test") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	if !rl.Allow("alice") {
		t.Error("first request for alice should pass")
	}
	if rl.Allow("alice") {
		t.Error("second request for alice should be limited")
	}
	if !rl.Allow("bob") {
		t.Error("first request for bob should pass despite alice's limit")
	}
}

func TestKeyedRateLimiter_Refills(t *testing.T) {
	rl := New(50, 1)
	defer rl.Stop()

	if !rl.Allow("key") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("key") {
		t.Fatal("burst exhausted, second request should be limited")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("key") {
		t.Error("request after refill interval should pass")
	}
}

func TestPerMinute(t *testing.T) {
	rl := PerMinute(60, 2)
	defer rl.Stop()

	if !rl.Allow("key") || !rl.Allow("key") {
		t.Error("burst of 2 should pass")
	}
	if rl.Allow("key") {
		t.Error("third immediate request should be limited")
	}
}
