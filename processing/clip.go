package processing

import (
	"gorgonia.org/tensor"
)

// ClipUnit clamps a single coordinate to the unit interval.
func ClipUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Transform maps fn over every element of t in place.
func Transform(t *tensor.Dense, fn func(float32) float32) error {
	res, err := t.Apply(fn)
	if err != nil {
		return err
	}
	return tensor.Copy(t, res)
}

// ClipBoxes clamps every coordinate of the generated boxes to [0, 1] in place.
func ClipBoxes(boxes *tensor.Dense) error {
	return Transform(boxes, ClipUnit)
}
