package utils

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// SpatialDims reads the (height, width) of a tensor laid out as NCHW, CHW or
// HW. Only the shape is consulted, never the data.
func SpatialDims(t *tensor.Dense) (int, int, error) {
	shape := t.Shape()

	var height, width int
	switch len(shape) {
	case 4:
		height, width = shape[2], shape[3]
	case 3:
		height, width = shape[1], shape[2]
	case 2:
		height, width = shape[0], shape[1]
	default:
		return 0, 0, errors.Errorf("expected a 2D, 3D or 4D tensor, got shape %v", shape)
	}

	if height <= 0 || width <= 0 {
		return 0, 0, errors.Errorf("spatial dimensions must be positive, got (%d, %d)", height, width)
	}
	return height, width, nil
}

// VStack concatenates tensors along the first axis, skipping empty ones.
func VStack(tensors []*tensor.Dense) (*tensor.Dense, error) {
	var nonEmptyTensors []*tensor.Dense
	for _, t := range tensors {
		shape := t.Shape()
		if shape[0] > 0 {
			nonEmptyTensors = append(nonEmptyTensors, t)
		}
	}

	if len(nonEmptyTensors) == 0 {
		return tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(0, 1)), nil
	}

	result, err := nonEmptyTensors[0].Concat(0, nonEmptyTensors[1:]...)
	if err != nil {
		return nil, errors.Wrap(err, "error concatenating tensors")
	}

	return result, nil
}
