package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeRange_Clamp(t *testing.T) {
	rules := DefaultCodeRules()

	tests := []struct {
		name     string
		r        CodeRange
		in       float64
		want     int
		adjusted bool
	}{
		{name: "type in range", r: rules.Type, in: 2, want: 2},
		{name: "type above range", r: rules.Type, in: 3, want: 1, adjusted: true},
		{name: "direction in range", r: rules.Direction, in: 11, want: 11},
		{name: "direction zero", r: rules.Direction, in: 0, want: 10, adjusted: true},
		{name: "non integral", r: rules.Direction, in: 2.5, want: 10, adjusted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, adjusted := tt.r.Clamp(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.adjusted, adjusted)
		})
	}
}

func TestCodeRules_Frame(t *testing.T) {
	rules := DefaultCodeRules()
	override := " Custom "
	blank := "  "

	assert.Equal(t, FrameLocal, rules.Frame(3, nil))
	assert.Equal(t, FrameGlobal, rules.Frame(4, nil))
	assert.Equal(t, FrameGlobal, rules.Frame(10, &blank))
	assert.Equal(t, "Custom", rules.Frame(1, &override))
}
