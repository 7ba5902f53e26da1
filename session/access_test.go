package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		name   string
		access Access
		allow  bool
	}{
		{"fresh session", Access{}, true},
		{"under the free limit", Access{Uses: 2}, true},
		{"at the free limit", Access{Uses: 3}, false},
		{"over the free limit", Access{Uses: 10}, false},
		{"premium ignores the counter", Access{Premium: true, Uses: 50}, true},
		{"founder ignores the counter", Access{Founder: true, Uses: 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allow, tt.access.Allow())
		})
	}
}

func TestUnlimited(t *testing.T) {
	assert.False(t, Access{}.Unlimited())
	assert.True(t, Access{Premium: true}.Unlimited())
	assert.True(t, Access{Founder: true}.Unlimited())
}
