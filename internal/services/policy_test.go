package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptPolicy(t *testing.T) {
	tests := []struct {
		name          string
		policy        AttemptPolicy
		used          int
		wantLimit     int
		wantRemaining *int
		wantRetake    bool
	}{
		{name: "retake disabled ignores max attempts", policy: AttemptPolicy{AllowRetake: false, MaxAttempts: 5}, used: 0, wantLimit: 1, wantRemaining: intPtr(1), wantRetake: false},
		{name: "retake disabled after first attempt", policy: AttemptPolicy{AllowRetake: false, MaxAttempts: 5}, used: 1, wantLimit: 1, wantRemaining: intPtr(0), wantRetake: false},
		{name: "limited with attempts left", policy: AttemptPolicy{AllowRetake: true, MaxAttempts: 3}, used: 1, wantLimit: 3, wantRemaining: intPtr(2), wantRetake: true},
		{name: "limited and exhausted", policy: AttemptPolicy{AllowRetake: true, MaxAttempts: 3}, used: 3, wantLimit: 3, wantRemaining: intPtr(0), wantRetake: false},
		{name: "over the limit clamps to zero", policy: AttemptPolicy{AllowRetake: true, MaxAttempts: 2}, used: 4, wantLimit: 2, wantRemaining: intPtr(0), wantRetake: false},
		{name: "unlimited", policy: AttemptPolicy{AllowRetake: true, MaxAttempts: 0}, used: 40, wantLimit: 0, wantRemaining: nil, wantRetake: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLimit, tt.policy.Limit())
			assert.Equal(t, tt.wantRetake, tt.policy.CanRetake(tt.used))

			remaining := tt.policy.Remaining(tt.used)
			if tt.wantRemaining == nil {
				assert.Nil(t, remaining)
				return
			}
			require.NotNil(t, remaining)
			assert.Equal(t, *tt.wantRemaining, *remaining)
		})
	}
}

func intPtr(v int) *int { return &v }
