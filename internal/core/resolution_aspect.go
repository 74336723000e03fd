package core

import (
	"fmt"
	"math"
)

// sqrt2 is the side ratio of an A4 sheet (up to rounding): 297/210 ≈ √2.
const sqrt2 = 1.4142135623730951

// aspectTolerance is how close width/height must be to a recognized ratio to
// render as that ratio's name instead of a fraction or float.
const aspectTolerance = 0.001

// maxSmallFractionTerm bounds the numerator/denominator of the "small
// fraction" aspect rendering; wider ratios fall back to a 3-decimal float.
const maxSmallFractionTerm = 30

// String formats r as "W x H (aspect)". aspect is "A4" / "A4 Vertical" for
// ratios within aspectTolerance of √2 / 1/√2, otherwise a reduced fraction
// n/d with both terms at most maxSmallFractionTerm, otherwise a 3-decimal
// float. There is no grounding for this in the upstream library — its
// to_string(Resolution) only ever produced "W x H" — so this formatting is
// derived directly from this library's own aspect-naming rules.
func (r Resolution) String() string {
	return fmt.Sprintf("%d x %d (%s)", r.width, r.height, r.aspectString())
}

func (r Resolution) aspectString() string {
	ratio := float64(r.width) / float64(r.height)

	if math.Abs(ratio-sqrt2) < aspectTolerance {
		return "A4"
	}
	if math.Abs(ratio-1/sqrt2) < aspectTolerance {
		return "A4 Vertical"
	}

	g := gcdUint32(r.width, r.height)
	n, d := r.width/g, r.height/g
	if n <= maxSmallFractionTerm && d <= maxSmallFractionTerm {
		return fmt.Sprintf("%d/%d", n, d)
	}

	return fmt.Sprintf("%.3f", ratio)
}

func gcdUint32(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
