package ssd

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/okieraised/go-priorbox/config"
	"github.com/okieraised/go-priorbox/processing"
	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"
)

func TestNumPriorsPerCell(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes:     []float32{30},
		MaxSizes:     []float32{60},
		AspectRatios: []float32{2.0},
	}
	expanded := processing.ExpandAspectRatios(cfg.AspectRatios, false)
	assert.Equal(t, []float32{1.0, 2.0}, expanded)
	assert.Equal(t, 3, NumPriorsPerCell(expanded, cfg))
}

func TestPriorBoxes_SingleCellGeometry(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes: []float32{30},
		Offset:   0.5,
	}

	boxes, err := PriorBoxes(1, 1, 300, 300, cfg)
	assert.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 1, 4}, boxes.Shape())

	coords := boxes.Float32s()
	assert.InDelta(t, 0.45, coords[0], 1e-6)
	assert.InDelta(t, 0.45, coords[1], 1e-6)
	assert.InDelta(t, 0.55, coords[2], 1e-6)
	assert.InDelta(t, 0.55, coords[3], 1e-6)
}

func TestPriorBoxes_Ordering(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes:     []float32{30, 60},
		AspectRatios: []float32{2.0},
		Offset:       0.5,
	}

	boxes, err := PriorBoxes(1, 1, 300, 300, cfg)
	assert.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 4, 4}, boxes.Shape())

	coords := boxes.Float32s()
	widths := make([]float32, 4)
	heights := make([]float32, 4)
	for p := 0; p < 4; p++ {
		widths[p] = (coords[p*4+2] - coords[p*4+0]) * 300
		heights[p] = (coords[p*4+3] - coords[p*4+1]) * 300
	}

	sqrt2 := math32.Sqrt(2)
	assert.InDelta(t, 30, widths[0], 1e-3)
	assert.InDelta(t, 30*sqrt2, widths[1], 1e-3)
	assert.InDelta(t, 30/sqrt2, heights[1], 1e-3)
	assert.InDelta(t, 60, widths[2], 1e-3)
	assert.InDelta(t, 60*sqrt2, widths[3], 1e-3)
	assert.InDelta(t, 60/sqrt2, heights[3], 1e-3)
}

func TestPriorBoxes_MaxSizeVariant(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes: []float32{30},
		MaxSizes: []float32{60},
		Offset:   0.5,
	}

	boxes, err := PriorBoxes(1, 1, 300, 300, cfg)
	assert.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 2, 4}, boxes.Shape())

	coords := boxes.Float32s()
	secondWidth := (coords[6] - coords[4]) * 300
	assert.InDelta(t, math32.Sqrt(30*60), secondWidth, 1e-3)
}

func TestPriorBoxes_StepDerivation(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes: []float32{30},
		Offset:   0.5,
	}

	// steps of zero derive 300/2 = 150 per cell
	boxes, err := PriorBoxes(2, 2, 300, 300, cfg)
	assert.NoError(t, err)

	coords := boxes.Float32s()
	// cell (0, 0) centered at 75, cell (0, 1) centered at 225
	assert.InDelta(t, (75.0-15.0)/300.0, coords[0], 1e-6)
	assert.InDelta(t, (225.0-15.0)/300.0, coords[4], 1e-6)
}

func TestPriorBoxes_StepOverride(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes: []float32{30},
		StepW:    100,
		StepH:    100,
		Offset:   0.5,
	}

	boxes, err := PriorBoxes(2, 2, 300, 300, cfg)
	assert.NoError(t, err)

	coords := boxes.Float32s()
	// cell (0, 0) centered at 50, cell (0, 1) centered at 150
	assert.InDelta(t, (50.0-15.0)/300.0, coords[0], 1e-6)
	assert.InDelta(t, (150.0-15.0)/300.0, coords[4], 1e-6)
}

func TestPriorBoxes_NoPreClamp(t *testing.T) {
	// large boxes near the border spill outside [0, 1] until clipped
	cfg := &config.PriorBoxParams{
		MinSizes: []float32{400},
		Offset:   0.5,
	}

	boxes, err := PriorBoxes(1, 1, 300, 300, cfg)
	assert.NoError(t, err)

	coords := boxes.Float32s()
	assert.Less(t, coords[0], float32(0))
	assert.Greater(t, coords[2], float32(1))
}

func TestPriorBoxes_Deterministic(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes:     []float32{30, 60},
		MaxSizes:     []float32{60, 111},
		AspectRatios: []float32{2.0, 3.0},
		Flip:         true,
		Offset:       0.5,
	}

	first, err := PriorBoxes(4, 4, 300, 300, cfg)
	assert.NoError(t, err)
	second, err := PriorBoxes(4, 4, 300, 300, cfg)
	assert.NoError(t, err)

	assert.Equal(t, first.Float32s(), second.Float32s())
	assert.Equal(t, first.Shape(), second.Shape())
}

func TestPriorBoxes_MismatchedMaxSizes(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes: []float32{30, 60},
		MaxSizes: []float32{90},
		Offset:   0.5,
	}

	_, err := PriorBoxes(1, 1, 300, 300, cfg)
	assert.Error(t, err)
}

func TestPriorBoxes_InvalidDims(t *testing.T) {
	cfg := &config.PriorBoxParams{
		MinSizes: []float32{30},
		Offset:   0.5,
	}

	_, err := PriorBoxes(0, 1, 300, 300, cfg)
	assert.Error(t, err)
	_, err = PriorBoxes(1, 1, 300, 0, cfg)
	assert.Error(t, err)
}
