package prism

import (
	"fmt"
	"math"
	"strings"
)

// Kind is the optical material of an element.
type Kind uint8

const (
	KindPrism  Kind = iota // transparent glass, triangular in the stock layout
	KindSlab               // transparent glass, rectangular in the stock layout
	KindMirror             // reflects only, never transmits
)

func (k Kind) String() string {
	switch k {
	case KindPrism:
		return "prism"
	case KindSlab:
		return "slab"
	case KindMirror:
		return "mirror"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Transparent reports whether the kind refracts (prism and slab share glass behaviour).
func (k Kind) Transparent() bool { return k == KindPrism || k == KindSlab }

func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "prism", "triangle":
		return KindPrism, nil
	case "slab", "rectangle":
		return KindSlab, nil
	case "mirror":
		return KindMirror, nil
	default:
		return 0, fmt.Errorf("unknown element kind %q", raw)
	}
}

// RefractiveIndex is the empirical glass dispersion curve, wavelength in nanometres.
func RefractiveIndex(wavelengthNm Real) Real {
	return 1.61 - 0.00024121*wavelengthNm + 0.00000016*wavelengthNm*wavelengthNm
}

// wavelengthCount is the number of samples Wavelengths produces; ok is false for
// an invalid range or more than MaxWavelengths samples.
func wavelengthCount(min, max, step Real) (int, bool) {
	if step <= 0 || !isFinite(min) || !isFinite(max) || !isFinite(step) || max < min {
		return 0, false
	}
	n := math.Floor((max-min)/step+1e-9) + 1
	if !isFinite(n) || n > MaxWavelengths {
		return 0, false
	}
	return int(n), true
}

// Wavelengths samples [min, max] inclusively at step; max is included when it
// lands on the grid (within rounding). Invalid or oversized ranges give nil.
func Wavelengths(min, max, step Real) []Real {
	n, ok := wavelengthCount(min, max, step)
	if !ok {
		return nil
	}
	out := make([]Real, n)
	for i := range out {
		out[i] = min + Real(i)*step
	}
	return out
}
