package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PipelineLayerConfig pairs the box parameters of one layer with the spatial
// dimensions of the feature map it is generated over.
type PipelineLayerConfig struct {
	FeatureHeight  int `json:"feature_height" yaml:"feature_height"`
	FeatureWidth   int `json:"feature_width" yaml:"feature_width"`
	PriorBoxParams `yaml:",inline"`
}

// PipelineConfig describes a full multi-layer prior grid, SSD style: one
// entry per feature map, all sharing the same input image dimensions.
type PipelineConfig struct {
	ImageHeight int                   `json:"image_height" yaml:"image_height"`
	ImageWidth  int                   `json:"image_width" yaml:"image_width"`
	Layers      []PipelineLayerConfig `json:"layers" yaml:"layers"`
}

func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read pipeline config %q", path)
	}

	cfg := &PipelineConfig{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse pipeline config %q", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PipelineConfig) Validate() error {
	if c.ImageHeight <= 0 || c.ImageWidth <= 0 {
		return errors.Errorf("image dimensions must be positive, got (%d, %d)", c.ImageHeight, c.ImageWidth)
	}
	if len(c.Layers) == 0 {
		return errors.New("at least one layer is required")
	}
	for i := range c.Layers {
		layer := &c.Layers[i]
		if layer.FeatureHeight <= 0 || layer.FeatureWidth <= 0 {
			return errors.Errorf("layer %d: feature map dimensions must be positive, got (%d, %d)", i, layer.FeatureHeight, layer.FeatureWidth)
		}
		if err := layer.PriorBoxParams.Validate(); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
	}
	return nil
}
