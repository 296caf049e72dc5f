package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", ""},
		{"short token fully masked", "abc123", "***"},
		{"boundary length fully masked", "123456789012", "***"},
		{"long token keeps edges", "EAAGm0PX4ZCpsBAJzLongTokenValue1234", "EAAG...1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskToken(tt.token))
		})
	}
}
