package logger

import (
	"testing"

	"nft_marketplace/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = NewZapLogger(config.LoggingConfig{Level: "loud"})
	require.Error(t, err)
}

func TestSlogAdapter_RoutesToZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	InitZap(zap.New(core))

	NewSlogAdapter("TokenPageService").Warn("Collection metadata unavailable", "tokenId", "1")

	entries := logs.FilterMessage("Collection metadata unavailable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "TokenPageService", fields["component"])
	assert.Equal(t, "1", fields["tokenId"])
}
