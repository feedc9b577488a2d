package ssd

import (
	"github.com/chewxy/math32"
	"github.com/okieraised/go-priorbox/config"
	"github.com/okieraised/go-priorbox/processing"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

const unitRatioTolerance = 1e-6

// NumPriorsPerCell returns the number of boxes emitted per feature map cell.
// Only correct when MaxSizes is empty or index-aligned with MinSizes.
func NumPriorsPerCell(expandedRatios []float32, cfg *config.PriorBoxParams) int {
	return len(expandedRatios)*len(cfg.MinSizes) + len(cfg.MaxSizes)
}

// PriorBoxes generates the dense prior grid for one feature map layer,
// returning a [layerHeight, layerWidth, numPriors, 4] tensor of normalized
// (xmin, ymin, xmax, ymax) coordinates. Per cell the emission order is
// min-size major, then ratio-1 box, max-size variant when configured, and the
// remaining ratios in expansion order. Coordinates are not clamped here.
func PriorBoxes(layerHeight, layerWidth, imgHeight, imgWidth int, cfg *config.PriorBoxParams) (*tensor.Dense, error) {
	if layerHeight <= 0 || layerWidth <= 0 {
		return nil, errors.Errorf("feature map dimensions must be positive, got (%d, %d)", layerHeight, layerWidth)
	}
	if imgHeight <= 0 || imgWidth <= 0 {
		return nil, errors.Errorf("image dimensions must be positive, got (%d, %d)", imgHeight, imgWidth)
	}
	if len(cfg.MaxSizes) != 0 && len(cfg.MaxSizes) != len(cfg.MinSizes) {
		return nil, errors.Errorf("max_sizes must be empty or match min_sizes length, got %d and %d", len(cfg.MaxSizes), len(cfg.MinSizes))
	}

	expandedRatios := processing.ExpandAspectRatios(cfg.AspectRatios, cfg.Flip)
	numPriors := NumPriorsPerCell(expandedRatios, cfg)

	var stepWidth, stepHeight float32
	if cfg.StepW == 0 || cfg.StepH == 0 {
		stepWidth = float32(imgWidth) / float32(layerWidth)
		stepHeight = float32(imgHeight) / float32(layerHeight)
	} else {
		stepWidth = cfg.StepW
		stepHeight = cfg.StepH
	}

	fw := float32(imgWidth)
	fh := float32(imgHeight)

	backing := make([]float32, layerHeight*layerWidth*numPriors*4)
	boxAt := func(h, w, prior int) int {
		return ((h*layerWidth+w)*numPriors + prior) * 4
	}

	for h := 0; h < layerHeight; h++ {
		for w := 0; w < layerWidth; w++ {
			centerX := (float32(w) + cfg.Offset) * stepWidth
			centerY := (float32(h) + cfg.Offset) * stepHeight

			idx := 0
			emit := func(boxWidth, boxHeight float32) {
				at := boxAt(h, w, idx)
				backing[at+0] = (centerX - boxWidth/2) / fw
				backing[at+1] = (centerY - boxHeight/2) / fh
				backing[at+2] = (centerX + boxWidth/2) / fw
				backing[at+3] = (centerY + boxHeight/2) / fh
				idx++
			}

			for s, minSize := range cfg.MinSizes {
				// first prior: aspect ratio 1, size min_size
				emit(minSize, minSize)

				// second prior: aspect ratio 1, size sqrt(min_size * max_size)
				if len(cfg.MaxSizes) > 0 {
					size := math32.Sqrt(minSize * cfg.MaxSizes[s])
					emit(size, size)
				}

				// rest of the priors, the unit ratio is already covered
				for _, ar := range expandedRatios {
					if math32.Abs(ar-1.0) < unitRatioTolerance {
						continue
					}
					sqrtAR := math32.Sqrt(ar)
					emit(minSize*sqrtAR, minSize/sqrtAR)
				}
			}

			if idx != numPriors {
				return nil, errors.Errorf("emitted %d priors for cell (%d, %d), expected %d", idx, h, w, numPriors)
			}
		}
	}

	return tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(layerHeight, layerWidth, numPriors, 4),
		tensor.WithBacking(backing),
	), nil
}
