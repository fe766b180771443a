package reconcile

import (
	"strings"

	"frameload-sync/core/utils"
)

const (
	// FrameLocal labels directions expressed in the member's local axes.
	FrameLocal = "Local"
	// FrameGlobal labels directions expressed in global axes.
	FrameGlobal = "Global"
)

// CodeRange is an inclusive range of integer codes with a fallback.
type CodeRange struct {
	Min     int
	Max     int
	Default int
}

// Clamp returns v as a code, or the default when v is out of range or non-integral.
func (c CodeRange) Clamp(v float64) (int, bool) {
	code, ok := utils.ToCode(v)
	if !ok || code < c.Min || code > c.Max {
		return c.Default, true
	}
	return code, false
}

func (c CodeRange) valid() bool {
	return c.Min <= c.Max && c.Default >= c.Min && c.Default <= c.Max
}

// CodeRules holds the type and direction code ranges and the local axis threshold.
type CodeRules struct {
	Type      CodeRange
	Direction CodeRange

	// LocalBelow is the first direction code expressed in global axes.
	LocalBelow int
}

// DefaultCodeRules returns the frame load code rules.
func DefaultCodeRules() CodeRules {
	return CodeRules{
		Type:       CodeRange{Min: 1, Max: 2, Default: 1},
		Direction:  CodeRange{Min: 1, Max: 11, Default: 10},
		LocalBelow: 4,
	}
}

// Frame derives the coordinate frame label. A non-blank override wins.
func (c CodeRules) Frame(direction int, override *string) string {
	if override != nil && strings.TrimSpace(*override) != "" {
		return strings.TrimSpace(*override)
	}
	if direction < c.LocalBelow {
		return FrameLocal
	}
	return FrameGlobal
}
