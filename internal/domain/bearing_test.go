package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardinal(t *testing.T) {
	tests := []struct {
		name     string
		deg      float64
		expected string
	}{
		{"north", 0, "N"},
		{"north upper edge", 11.24, "N"},
		{"nne", 22.5, "NNE"},
		{"east", 90, "E"},
		{"south", 180, "S"},
		{"west", 270, "W"},
		{"nnw", 337.5, "NNW"},
		{"wraps back to north", 355, "N"},
		{"fractional", 123.4, "ESE"},
		{"over a full turn", 450, "E"},
		{"negative", -90, "W"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Cardinal(tt.deg))
		})
	}
}

func TestCardinal_TotalOverFullCircle(t *testing.T) {
	valid := make(map[string]bool, len(cardinals))
	for _, c := range cardinals {
		valid[c] = true
	}

	for deg := 0.0; deg < 360; deg += 0.25 {
		label := Cardinal(deg)
		assert.True(t, valid[label], "deg %f produced unknown label %q", deg, label)
		assert.Equal(t, label, Cardinal(deg+360), "deg %f not periodic", deg)
	}
}
