package go_priorbox

import (
	"github.com/okieraised/go-priorbox/config"
	"github.com/okieraised/go-priorbox/modules"
	"github.com/okieraised/go-priorbox/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorgonia.org/tensor"
)

// LayerPriors holds the generated priors of one feature map layer, boxes and
// variances flattened to [H*W*numPriors, 4].
type LayerPriors struct {
	Name        string        `json:"name"`
	LayerHeight int           `json:"layer_height"`
	LayerWidth  int           `json:"layer_width"`
	NumPriors   int           `json:"num_priors"`
	Boxes       *tensor.Dense `json:"boxes"`
	Variances   *tensor.Dense `json:"variances"`
}

// PriorBoxPipeline generates prior grids over several feature map layers of
// one detection network, SSD style.
type PriorBoxPipeline struct {
	priorBoxes []*modules.PriorBoxClient
}

// NewPriorBoxPipeline initializes a pipeline with one prior box client per
// feature map layer.
func NewPriorBoxPipeline(cfgs ...*config.PriorBoxParams) (*PriorBoxPipeline, error) {
	if len(cfgs) == 0 {
		return nil, errors.New("at least one prior box configuration is required")
	}

	client := &PriorBoxPipeline{}
	for _, cfg := range cfgs {
		priorBox, err := modules.NewPriorBoxClient(cfg)
		if err != nil {
			return nil, err
		}
		client.priorBoxes = append(client.priorBoxes, priorBox)
	}
	return client, nil
}

// GenerateLayers computes the priors of every configured layer. Layers are
// independent of each other and run concurrently. featureMaps must hold one
// tensor per configured layer; only spatial dimensions are read from them and
// from the image tensor.
func (p *PriorBoxPipeline) GenerateLayers(featureMaps []*tensor.Dense, image *tensor.Dense) ([]*LayerPriors, error) {
	if len(featureMaps) != len(p.priorBoxes) {
		return nil, errors.Errorf("expected %d feature maps, got %d", len(p.priorBoxes), len(featureMaps))
	}

	layers := make([]*LayerPriors, len(p.priorBoxes))
	g := new(errgroup.Group)
	for i, priorBox := range p.priorBoxes {
		i, priorBox := i, priorBox
		g.Go(func() error {
			layerHeight, layerWidth, err := utils.SpatialDims(featureMaps[i])
			if err != nil {
				return errors.Wrapf(err, "layer %d", i)
			}

			boxes, variances, err := priorBox.Infer(featureMaps[i], image)
			if err != nil {
				return errors.Wrapf(err, "layer %d", i)
			}

			numPriors := priorBox.NumPriorsPerCell()
			if err := boxes.Reshape(layerHeight*layerWidth*numPriors, 4); err != nil {
				return errors.Wrapf(err, "layer %d", i)
			}

			layers[i] = &LayerPriors{
				Name:        priorBox.ModelParams.Name,
				LayerHeight: layerHeight,
				LayerWidth:  layerWidth,
				NumPriors:   numPriors,
				Boxes:       boxes,
				Variances:   variances,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return layers, nil
}

// Generate computes the priors of every configured layer and concatenates
// boxes and variances across layers into two [totalBoxes, 4] tensors.
func (p *PriorBoxPipeline) Generate(featureMaps []*tensor.Dense, image *tensor.Dense) (*tensor.Dense, *tensor.Dense, error) {
	layers, err := p.GenerateLayers(featureMaps, image)
	if err != nil {
		return nil, nil, err
	}

	allBoxes := make([]*tensor.Dense, 0, len(layers))
	allVariances := make([]*tensor.Dense, 0, len(layers))
	for _, layer := range layers {
		allBoxes = append(allBoxes, layer.Boxes)
		allVariances = append(allVariances, layer.Variances)
	}

	boxes, err := utils.VStack(allBoxes)
	if err != nil {
		return nil, nil, err
	}
	variances, err := utils.VStack(allVariances)
	if err != nil {
		return nil, nil, err
	}
	return boxes, variances, nil
}
