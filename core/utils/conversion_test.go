package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{name: "float64", input: 2.5, want: 2.5, wantOK: true},
		{name: "int", input: 3, want: 3, wantOK: true},
		{name: "plain string", input: "4.25", want: 4.25, wantOK: true},
		{name: "padded string", input: "  7 ", want: 7, wantOK: true},
		{name: "decimal comma", input: "1,5", want: 1.5, wantOK: true},
		{name: "thousands separator", input: "1,234.5", want: 1234.5, wantOK: true},
		{name: "inner spaces", input: "1 000", want: 1000, wantOK: true},
		{name: "exponent", input: "1e-3", want: 0.001, wantOK: true},
		{name: "text", input: "abc", wantOK: false},
		{name: "empty", input: "   ", wantOK: false},
		{name: "nil", input: nil, wantOK: false},
		{name: "NaN", input: math.NaN(), wantOK: false},
		{name: "Inf string", input: "Inf", wantOK: false},
		{name: "ambiguous commas", input: "1,2,3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestToCode(t *testing.T) {
	code, ok := ToCode(4)
	assert.True(t, ok)
	assert.Equal(t, 4, code)

	_, ok = ToCode(2.5)
	assert.False(t, ok)

	_, ok = ToCode(math.Inf(1))
	assert.False(t, ok)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "12", ToString(12.0))
	assert.Equal(t, "0.5", ToString(0.5))
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "7", ToString(7))
}
