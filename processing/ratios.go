package processing

import (
	"gonum.org/v1/gonum/floats/scalar"
)

const ratioTolerance = 1e-6

// ExpandAspectRatios expands the configured aspect ratio list into the full
// per-cell ratio set. The output always starts with 1.0. Each input ratio is
// appended only if no value within tolerance was accumulated before it; when
// flip is set its reciprocal is appended right after, without a separate
// duplicate check. Ratios close to 1.0 are absorbed by the seed value.
func ExpandAspectRatios(aspectRatios []float32, flip bool) []float32 {
	expanded := []float32{1.0}
	for _, ar := range aspectRatios {
		alreadyExist := false
		for _, prev := range expanded {
			if scalar.EqualWithinAbs(float64(ar), float64(prev), ratioTolerance) {
				alreadyExist = true
				break
			}
		}
		if !alreadyExist {
			expanded = append(expanded, ar)
			if flip {
				expanded = append(expanded, 1.0/ar)
			}
		}
	}
	return expanded
}
