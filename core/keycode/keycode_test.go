package keycode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifierBits(t *testing.T) {
	assert.Equal(t, uint8(0x01), LCtrl.ModifierBit())
	assert.Equal(t, uint8(0x02), LShift.ModifierBit())
	assert.Equal(t, uint8(0x80), RGui.ModifierBit())
	assert.Equal(t, uint8(0), A.ModifierBit())
	assert.False(t, MediaPlayPause.IsModifier())
}

func TestConsumerUsage(t *testing.T) {
	assert.True(t, MediaVolUp.IsMedia())
	assert.False(t, RGui.IsMedia())
	assert.Equal(t, UsageVolumeUp, MediaVolUp.ConsumerUsage())
	assert.Equal(t, UsageScanPrev, MediaPreviousSong.ConsumerUsage())
	assert.Equal(t, UsageMute, MediaMute.ConsumerUsage())
	assert.Equal(t, uint16(0), A.ConsumerUsage())
}

func TestParseAndString(t *testing.T) {
	tests := map[string]Code{
		"a":           A,
		"Escape":      Escape,
		"esc":         Escape,
		"1":           Kb1,
		"\\":          Bslash,
		"vol+":        MediaVolUp,
		"SHIFT":       LShift,
		"_":           None,
		"PgDown":      PgDown,
		"printscreen": PScreen,
	}
	for in, want := range tests {
		got, ok := Parse(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := Parse("nope")
	assert.False(t, ok)
	_, ok = Parse("  ")
	assert.False(t, ok)

	assert.Equal(t, "MediaVolUp", MediaVolUp.String())
	assert.Equal(t, "", Code(0x02).String())
}

func TestEveryNameRoundTrips(t *testing.T) {
	for _, n := range names {
		got, ok := Parse(n.ident)
		assert.True(t, ok, n.ident)
		assert.Equal(t, n.code, got, n.ident)
		assert.Equal(t, n.ident, n.code.String())
	}
}
