package config

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultsFillsMissingValues(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Chat.MaxGroupParticipants)
	assert.Equal(t, 250, cfg.Notifications.DebounceMS)

	require.NotNil(t, cfg.Notifications.Enabled)
	require.NotNil(t, cfg.Notifications.Vibrate)
	assert.True(t, *cfg.Notifications.Enabled)
	assert.True(t, *cfg.Notifications.Vibrate)
	assert.False(t, cfg.Notifications.ShowAlert)
}

func TestSetDefaultsKeepsExplicitFalse(t *testing.T) {
	cfg := &Config{}
	cfg.Notifications.Enabled = lo.ToPtr(false)
	cfg.Notifications.Vibrate = lo.ToPtr(false)
	setDefaults(cfg)

	assert.False(t, *cfg.Notifications.Enabled)
	assert.False(t, *cfg.Notifications.Vibrate)
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Chat.MaxGroupParticipants = 25
	setDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Chat.MaxGroupParticipants)
}
