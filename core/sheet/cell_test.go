package sheet

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_Accessors(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		kind     Kind
		text     string
		textOK   bool
		number   float64
		numberOK bool
	}{
		{name: "empty", cell: Empty(), kind: KindEmpty},
		{name: "whitespace text", cell: Text("   "), kind: KindEmpty},
		{name: "text", cell: Text("  B12 "), kind: KindText, text: "B12", textOK: true},
		{name: "numeric text", cell: Text(" 0,25 "), kind: KindText, text: "0,25", textOK: true, number: 0.25, numberOK: true},
		{name: "number", cell: Number(12), kind: KindNumber, text: "12", textOK: true, number: 12, numberOK: true},
		{name: "fractional number", cell: Number(0.5), kind: KindNumber, text: "0.5", textOK: true, number: 0.5, numberOK: true},
		{name: "NaN", cell: Number(math.NaN()), kind: KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.cell.Kind())

			text, ok := tt.cell.AsText()
			assert.Equal(t, tt.textOK, ok)
			assert.Equal(t, tt.text, text)

			n, ok := tt.cell.AsNumber()
			assert.Equal(t, tt.numberOK, ok)
			if tt.numberOK {
				assert.InDelta(t, tt.number, n, 1e-12)
			}
		})
	}
}

func TestCell_FromAny(t *testing.T) {
	assert.Equal(t, KindEmpty, FromAny(nil).Kind())
	assert.Equal(t, KindText, FromAny("x").Kind())
	assert.Equal(t, KindNumber, FromAny(3).Kind())
	assert.Equal(t, KindNumber, FromAny(int64(3)).Kind())
	assert.Equal(t, KindText, FromAny(true).Kind())
}

func TestCell_JSON(t *testing.T) {
	in := []Cell{Empty(), Text("F1"), Number(2.5)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[null,"F1",2.5]`, string(data))

	var out []Cell
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
