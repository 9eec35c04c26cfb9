package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for s := StatusConnecting; s <= StatusError; s++ {
		got, ok := ParseStatus(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, got)
	}
	_, ok := ParseStatus("gone")
	assert.False(t, ok)
}

func TestSessionJSON(t *testing.T) {
	s := Session{
		ID:          "client_0badc0de",
		Origin:      "192.168.1.20",
		ProfileName: "Couch",
		ConnectedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:      StatusActive,
		DeviceID:    2,
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "client_0badc0de", got["client_id"])
	assert.Equal(t, "192.168.1.20", got["ip_address"])
	assert.Equal(t, "active", got["status"])
	assert.Equal(t, float64(2), got["gamepad_id"])
	assert.NotContains(t, got, "last_input_at")
	assert.NotContains(t, got, "user_agent")
}
