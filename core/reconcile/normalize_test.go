package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(a, b float64) *Pair {
	return &Pair{Start: a, End: b}
}

func TestNormalize_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		length   float64
		rel      *Pair
		abs      *Pair
		wantRel  Pair
		wantAbs  Pair
		adjusted bool
	}{
		{
			name:    "relative derives absolute",
			length:  10,
			rel:     pair(0.2, 0.8),
			wantRel: Pair{0.2, 0.8},
			wantAbs: Pair{2, 8},
		},
		{
			name:     "reversed relative is swapped",
			length:   10,
			rel:      pair(0.9, 0.1),
			wantRel:  Pair{0.1, 0.9},
			wantAbs:  Pair{1, 9},
			adjusted: true,
		},
		{
			name:     "absolute only is clamped to length",
			length:   10,
			abs:      pair(-2, 15),
			wantRel:  Pair{0, 1},
			wantAbs:  Pair{0, 10},
			adjusted: true,
		},
		{
			name:     "relative clamped to unit range",
			length:   4,
			rel:      pair(-0.5, 1.5),
			wantRel:  Pair{0, 1},
			wantAbs:  Pair{0, 4},
			adjusted: true,
		},
		{
			name:    "supplied absolute within tolerance is kept",
			length:  10,
			rel:     pair(0.2, 0.8),
			abs:     pair(2.0000001, 8),
			wantRel: Pair{0.2, 0.8},
			wantAbs: Pair{2.0000001, 8},
		},
		{
			name:     "supplied absolute outside tolerance is overridden",
			length:   10,
			rel:      pair(0.2, 0.8),
			abs:      pair(3, 8),
			wantRel:  Pair{0.2, 0.8},
			wantAbs:  Pair{2, 8},
			adjusted: true,
		},
		{
			name:    "no length keeps supplied absolute",
			length:  math.NaN(),
			rel:     pair(0.25, 0.5),
			abs:     pair(7, 3),
			wantRel: Pair{0.25, 0.5},
			wantAbs: Pair{7, 3},
		},
		{
			name:    "no length and no absolute yields zero",
			length:  0,
			rel:     pair(0.25, 0.5),
			wantRel: Pair{0.25, 0.5},
		},
		{
			name:     "absolute reversed is swapped",
			length:   10,
			abs:      pair(8, 2),
			wantRel:  Pair{0.2, 0.8},
			wantAbs:  Pair{2, 8},
			adjusted: true,
		},
		{
			name:    "non-finite relative falls back to absolute",
			length:  10,
			rel:     pair(math.Inf(1), 0.5),
			abs:     pair(5, 10),
			wantRel: Pair{0.5, 1},
			wantAbs: Pair{5, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Normalize(tt.length, tt.rel, tt.abs)
			require.True(t, ok)
			assert.InDelta(t, tt.wantRel.Start, res.Relative.Start, 1e-12)
			assert.InDelta(t, tt.wantRel.End, res.Relative.End, 1e-12)
			assert.InDelta(t, tt.wantAbs.Start, res.Absolute.Start, 1e-12)
			assert.InDelta(t, tt.wantAbs.End, res.Absolute.End, 1e-12)
			assert.Equal(t, tt.adjusted, res.Adjusted)
		})
	}
}

func TestNormalize_Unresolved(t *testing.T) {
	tests := []struct {
		name   string
		length float64
		rel    *Pair
		abs    *Pair
	}{
		{name: "nothing supplied", length: 10},
		{name: "absolute without length", length: math.NaN(), abs: pair(1, 2)},
		{name: "absolute with tiny length", length: 1e-12, abs: pair(1, 2)},
		{name: "non-finite pairs", length: 10, rel: pair(math.NaN(), 1), abs: pair(1, math.Inf(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Normalize(tt.length, tt.rel, tt.abs)
			assert.False(t, ok)
		})
	}
}

func TestNormalize_Properties(t *testing.T) {
	lengths := []float64{0.5, 1, 3.7, 10, 250}
	values := []float64{-1.5, -0.1, 0, 0.05, 0.3, 0.5, 0.99, 1, 1.2, 3}

	for _, l := range lengths {
		for _, a := range values {
			for _, b := range values {
				res, ok := Normalize(l, pair(a, b), nil)
				require.True(t, ok)

				// clamp and swap
				assert.True(t, res.Relative.Start >= 0 && res.Relative.End <= 1)
				assert.LessOrEqual(t, res.Relative.Start, res.Relative.End)
				assert.True(t, res.Absolute.Start >= 0 && res.Absolute.End <= l)
				assert.LessOrEqual(t, res.Absolute.Start, res.Absolute.End)

				// idempotence
				again, ok := Normalize(l, &res.Relative, &res.Absolute)
				require.True(t, ok)
				assert.False(t, again.Adjusted, "l=%v a=%v b=%v", l, a, b)
				assert.Equal(t, res.Relative, again.Relative)

				// round trip through the absolute form
				back, ok := Normalize(l, nil, &res.Absolute)
				require.True(t, ok)
				assert.InDelta(t, res.Relative.Start, back.Relative.Start, 1e-9)
				assert.InDelta(t, res.Relative.End, back.Relative.End, 1e-9)
			}
		}
	}
}

func TestNormalize_SuppliedAbsoluteNearBounds(t *testing.T) {
	tests := []struct {
		name     string
		rel      *Pair
		abs      *Pair
		want     Pair
		adjusted bool
	}{
		{"Outside Both Ends", pair(0, 1), pair(-1e-7, 10.000001), Pair{Start: 0, End: 10}, true},
		{"Crossed Within Tolerance", pair(0.5, 0.5), pair(5.000001, 4.999999), Pair{Start: 5, End: 5}, true},
		{"Inside Kept", pair(0.2, 0.8), pair(2.000001, 7.999999), Pair{Start: 2.000001, End: 7.999999}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Normalize(10, tt.rel, tt.abs)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.Absolute)
			assert.Equal(t, tt.adjusted, res.Adjusted)
		})
	}
}

func TestNormalize_PropertiesWithSuppliedAbsolute(t *testing.T) {
	lengths := []float64{0.5, 1, 3.7, 10, 250}
	rels := []Pair{{0, 1}, {0, 0}, {1, 1}, {0.5, 0.5}, {0.3, 0.3000001}}
	offsets := []float64{-1e-6, -1e-7, 0, 1e-7, 1e-6}

	for _, l := range lengths {
		for _, r := range rels {
			for _, o1 := range offsets {
				for _, o2 := range offsets {
					abs := pair(r.Start*l+o1*l, r.End*l+o2*l)
					res, ok := Normalize(l, &Pair{Start: r.Start, End: r.End}, abs)
					require.True(t, ok)

					assert.True(t, res.Absolute.Start >= 0 && res.Absolute.End <= l, "l=%v rel=%v abs=%v", l, r, *abs)
					assert.LessOrEqual(t, res.Absolute.Start, res.Absolute.End, "l=%v rel=%v abs=%v", l, r, *abs)
					if *abs != res.Absolute {
						assert.True(t, res.Adjusted, "l=%v rel=%v abs=%v", l, r, *abs)
					}
				}
			}
		}
	}
}

func TestNormalizer_CustomTolerance(t *testing.T) {
	n := Normalizer{MinLength: DefaultMinLength, Tolerance: 0.1}

	res, ok := n.Normalize(10, pair(0.2, 0.8), pair(2.4, 8))
	require.True(t, ok)
	assert.False(t, res.Adjusted)
	assert.Equal(t, 2.4, res.Absolute.Start)
}
