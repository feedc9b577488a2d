package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"
)

func TestSpatialDims(t *testing.T) {
	nchw := tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(1, 3, 300, 400))
	h, w, err := SpatialDims(nchw)
	assert.NoError(t, err)
	assert.Equal(t, 300, h)
	assert.Equal(t, 400, w)

	chw := tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(3, 38, 19))
	h, w, err = SpatialDims(chw)
	assert.NoError(t, err)
	assert.Equal(t, 38, h)
	assert.Equal(t, 19, w)

	hw := tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(10, 20))
	h, w, err = SpatialDims(hw)
	assert.NoError(t, err)
	assert.Equal(t, 10, h)
	assert.Equal(t, 20, w)
}

func TestSpatialDims_Invalid(t *testing.T) {
	flat := tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(12))
	_, _, err := SpatialDims(flat)
	assert.Error(t, err)
}

func TestVStack(t *testing.T) {
	a := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(2, 4),
		tensor.WithBacking([]float32{1, 2, 3, 4, 5, 6, 7, 8}),
	)
	b := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(1, 4),
		tensor.WithBacking([]float32{9, 10, 11, 12}),
	)

	res, err := VStack([]*tensor.Dense{a, b})
	assert.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 4}, res.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, res.Float32s())
}

func TestVStack_Empty(t *testing.T) {
	res, err := VStack(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Shape()[0])
}
