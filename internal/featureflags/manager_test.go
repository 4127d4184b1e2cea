package featureflags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, "u1"), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, "u1"), name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,broken=x%")

	assert.True(t, m.Enabled("always", "u1"))
	assert.False(t, m.Enabled("never", "u1"))
	assert.False(t, m.Enabled("broken", "u1"))
	assert.False(t, m.Enabled("canary", ""), "percentage rollout requires a user")

	first := m.Enabled("canary", "u42")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", "u42"), "rollout must be deterministic per user")
	}

	enabled := 0
	for i := 0; i < 1000; i++ {
		if m.Enabled("canary", fmt.Sprintf("user-%d", i)) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,Home_Feed=on, y = 20% ,z=off ")

	assert.Equal(t, map[string]string{"home_feed": "on", "y": "20%", "z": "off"}, m.Raw())

	snap := m.Snapshot("u1")
	assert.True(t, snap[HomeFeed])
	assert.False(t, snap["z"])
	assert.Len(t, snap, 3)
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(HomeFeed, "u1"))
}
