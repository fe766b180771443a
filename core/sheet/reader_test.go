package sheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(values ...string) []Cell {
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = Text(v)
	}
	return out
}

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name     string
		row      []Cell
		expected []string
		wantErr  bool
	}{
		{name: "exact", row: texts("Frame", "Load Pattern"), expected: []string{"Frame", "Load Pattern"}},
		{name: "case and spaces", row: texts(" frame ", "LOAD PATTERN"), expected: []string{"Frame", "Load Pattern"}},
		{name: "trailing blanks", row: append(texts("Frame", "Load Pattern"), Empty(), Empty()), expected: []string{"Frame", "Load Pattern"}},
		{name: "different labels", row: texts("A", "B"), expected: []string{"X", "Y"}, wantErr: true},
		{name: "wrong order", row: texts("Load Pattern", "Frame"), expected: []string{"Frame", "Load Pattern"}, wantErr: true},
		{name: "missing column", row: texts("Frame"), expected: []string{"Frame", "Load Pattern"}, wantErr: true},
		{name: "extra column", row: texts("Frame", "Load Pattern", "Note"), expected: []string{"Frame", "Load Pattern"}, wantErr: true},
		{name: "empty row", row: nil, expected: []string{"Frame"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.row, tt.expected)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrHeaderMismatch)
				var mismatch *HeaderMismatchError
				assert.True(t, errors.As(err, &mismatch))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCollect_OffsetsAndBlankRows(t *testing.T) {
	rows := [][]Cell{
		texts("title"),
		{},
		append([]Cell{Empty()}, texts("Frame", "Value")...),
		append([]Cell{Text("ignored")}, Text("F1"), Number(2)),
		{},
		append([]Cell{Empty()}, Text("F2")),
	}

	out, err := collect(rows, Request{StartRow: 3, StartCol: 2, Headers: []string{"Frame", "Value"}})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, 4, out[0].Index)
	assert.Equal(t, []Cell{Text("F1"), Number(2)}, out[0].Cells)

	assert.Equal(t, 6, out[1].Index)
	assert.Equal(t, []Cell{Text("F2"), Empty()}, out[1].Cells)
}

func TestCollect_HeaderMismatchReturnsNoRows(t *testing.T) {
	rows := [][]Cell{texts("A", "B"), texts("1", "2")}
	out, err := collect(rows, Request{StartRow: 1, StartCol: 1, Headers: []string{"X", "Y"}})
	assert.ErrorIs(t, err, ErrHeaderMismatch)
	assert.Nil(t, out)
}

func TestSplitObjectPath(t *testing.T) {
	bucket, key, ok := SplitObjectPath("s3://models/loads/level1.xlsx")
	assert.True(t, ok)
	assert.Equal(t, "models", bucket)
	assert.Equal(t, "loads/level1.xlsx", key)

	_, _, ok = SplitObjectPath("s3://models")
	assert.False(t, ok)

	_, _, ok = SplitObjectPath("/tmp/loads.xlsx")
	assert.False(t, ok)
}
