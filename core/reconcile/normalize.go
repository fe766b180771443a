package reconcile

import "math"

const (
	// DefaultMinLength is the smallest reference length treated as usable.
	DefaultMinLength = 1e-9

	// DefaultTolerance is the relative tolerance used to compare supplied and derived absolutes.
	DefaultTolerance = 1e-6
)

// Normalizer resolves relative and absolute distance pairs against a reference length.
type Normalizer struct {
	MinLength float64
	Tolerance float64
}

// Resolution is the normalized distance data of one row.
type Resolution struct {
	Relative Pair
	Absolute Pair
	Adjusted bool
}

// DefaultNormalizer returns a Normalizer with the default thresholds.
func DefaultNormalizer() Normalizer {
	return Normalizer{MinLength: DefaultMinLength, Tolerance: DefaultTolerance}
}

// Normalize resolves distances using the default thresholds.
func Normalize(length float64, rel, abs *Pair) (Resolution, bool) {
	return DefaultNormalizer().Normalize(length, rel, abs)
}

// Normalize resolves rel and abs. Pass NaN as length when it is unknown.
// The boolean is false when neither representation is usable.
func (n Normalizer) Normalize(length float64, rel, abs *Pair) (Resolution, bool) {
	hasLength := finite(length) && length > n.MinLength
	rel = usable(rel)
	abs = usable(abs)

	switch {
	case rel != nil:
		return n.fromRelative(length, hasLength, *rel, abs), true
	case abs != nil && hasLength:
		return fromAbsolute(length, *abs), true
	default:
		return Resolution{}, false
	}
}

func (n Normalizer) fromRelative(length float64, hasLength bool, rel Pair, abs *Pair) Resolution {
	var res Resolution

	r1, c1 := clamp(rel.Start, 0, 1)
	r2, c2 := clamp(rel.End, 0, 1)
	res.Adjusted = c1 || c2
	if r1 > r2 {
		r1, r2 = r2, r1
		res.Adjusted = true
	}
	res.Relative = Pair{Start: r1, End: r2}

	if !hasLength {
		if abs != nil {
			res.Absolute = *abs
		}
		return res
	}

	a1, c1 := clamp(r1*length, 0, length)
	a2, c2 := clamp(r2*length, 0, length)
	if c1 || c2 {
		res.Adjusted = true
	}

	if abs != nil {
		d1, d2 := a1, a2
		var o1, o2 bool
		a1, o1 = n.reconcile(abs.Start, d1)
		a2, o2 = n.reconcile(abs.End, d2)
		if o1 || o2 {
			res.Adjusted = true
		}

		// Supplied values within tolerance may still sit just outside the frame or cross.
		a1, o1 = clamp(a1, 0, length)
		a2, o2 = clamp(a2, 0, length)
		if o1 || o2 {
			res.Adjusted = true
		}
		if a1 > a2 {
			a1, a2 = d1, d2
			res.Adjusted = true
		}
	}
	res.Absolute = Pair{Start: a1, End: a2}
	return res
}

// reconcile keeps supplied when it is within tolerance of derived.
func (n Normalizer) reconcile(supplied, derived float64) (float64, bool) {
	tol := math.Max(1, math.Abs(supplied)+math.Abs(derived)) * n.Tolerance
	if math.Abs(supplied-derived) <= tol {
		return supplied, false
	}
	return derived, true
}

func fromAbsolute(length float64, abs Pair) Resolution {
	var res Resolution

	a1, c1 := clamp(abs.Start, 0, length)
	a2, c2 := clamp(abs.End, 0, length)
	res.Adjusted = c1 || c2
	if a1 > a2 {
		a1, a2 = a2, a1
		res.Adjusted = true
	}
	res.Absolute = Pair{Start: a1, End: a2}

	r1, _ := clamp(a1/length, 0, 1)
	r2, _ := clamp(a2/length, 0, 1)
	res.Relative = Pair{Start: r1, End: r2}
	return res
}

func usable(p *Pair) *Pair {
	if p == nil || !finite(p.Start) || !finite(p.End) {
		return nil
	}
	return p
}

func clamp(v, lo, hi float64) (float64, bool) {
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	default:
		return v, false
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
