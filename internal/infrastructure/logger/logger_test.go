package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestNew(t *testing.T) {
	log := New(Config{Level: "debug", Format: "console"})
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log = New(Config{Level: "error", Format: "json"})
	assert.Equal(t, zerolog.ErrorLevel, log.GetLevel())
}
