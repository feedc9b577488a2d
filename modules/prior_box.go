package modules

import (
	"github.com/okieraised/go-priorbox/config"
	"github.com/okieraised/go-priorbox/processing"
	"github.com/okieraised/go-priorbox/ssd"
	"github.com/okieraised/go-priorbox/utils"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// PriorBoxClient generates the prior grid for a single feature map layer.
// The client is stateless across calls, every Infer produces fresh tensors.
type PriorBoxClient struct {
	ModelParams    *config.PriorBoxParams
	expandedRatios []float32
	numPriors      int
}

func NewPriorBoxClient(cfg *config.PriorBoxParams) (*PriorBoxClient, error) {
	if cfg == nil {
		cfg = config.DefaultPriorBoxParams
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := &PriorBoxClient{}
	client.ModelParams = cfg
	client.expandedRatios = processing.ExpandAspectRatios(cfg.AspectRatios, cfg.Flip)
	client.numPriors = ssd.NumPriorsPerCell(client.expandedRatios, cfg)
	return client, nil
}

// NumPriorsPerCell returns the number of boxes emitted per feature map cell.
func (c *PriorBoxClient) NumPriorsPerCell() int {
	return c.numPriors
}

// ExpandedRatios returns a copy of the expanded aspect ratio set.
func (c *PriorBoxClient) ExpandedRatios() []float32 {
	out := make([]float32, len(c.expandedRatios))
	copy(out, c.expandedRatios)
	return out
}

// Infer reads the spatial dimensions of the feature map and image tensors and
// produces the [H, W, numPriors, 4] box tensor together with the
// [H*W*numPriors, 4] variance tensor.
func (c *PriorBoxClient) Infer(featureMap, image *tensor.Dense) (*tensor.Dense, *tensor.Dense, error) {
	layerHeight, layerWidth, err := utils.SpatialDims(featureMap)
	if err != nil {
		return nil, nil, errors.Wrap(err, "feature map")
	}
	imgHeight, imgWidth, err := utils.SpatialDims(image)
	if err != nil {
		return nil, nil, errors.Wrap(err, "image")
	}

	boxes, err := ssd.PriorBoxes(layerHeight, layerWidth, imgHeight, imgWidth, c.ModelParams)
	if err != nil {
		return nil, nil, err
	}

	if c.ModelParams.Clip {
		if err := processing.ClipBoxes(boxes); err != nil {
			return nil, nil, err
		}
	}

	boxCount := layerHeight * layerWidth * c.numPriors
	if boxes.Shape().TotalSize() != boxCount*4 {
		return nil, nil, errors.Errorf("generated %d coordinates for %d expected boxes", boxes.Shape().TotalSize(), boxCount)
	}

	variances, err := processing.BroadcastVariances(c.ModelParams.Variances, boxCount)
	if err != nil {
		return nil, nil, err
	}

	return boxes, variances, nil
}
