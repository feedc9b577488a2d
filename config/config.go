package config

import (
	"github.com/pkg/errors"
)

// PriorBoxParams configures prior box generation for a single feature map layer.
// MaxSizes is either empty or index-aligned with MinSizes; when present it
// enables a second ratio-1 box per min size. StepW/StepH of zero derive the
// step from the image to feature map ratio.
type PriorBoxParams struct {
	Name         string    `json:"name" yaml:"name"`
	MinSizes     []float32 `json:"min_sizes" yaml:"min_sizes"`
	MaxSizes     []float32 `json:"max_sizes" yaml:"max_sizes"`
	AspectRatios []float32 `json:"aspect_ratios" yaml:"aspect_ratios"`
	Variances    []float32 `json:"variances" yaml:"variances"`
	Flip         bool      `json:"flip" yaml:"flip"`
	Clip         bool      `json:"clip" yaml:"clip"`
	StepW        float32   `json:"step_w" yaml:"step_w"`
	StepH        float32   `json:"step_h" yaml:"step_h"`
	Offset       float32   `json:"offset" yaml:"offset"`
}

var DefaultPriorBoxParams = &PriorBoxParams{
	Name:         "conv4_3",
	MinSizes:     []float32{30},
	MaxSizes:     []float32{60},
	AspectRatios: []float32{2},
	Variances:    []float32{0.1, 0.1, 0.2, 0.2},
	Flip:         true,
	Clip:         true,
	StepW:        0,
	StepH:        0,
	Offset:       0.5,
}

func NewPriorBoxParams(name string, minSizes, maxSizes, aspectRatios, variances []float32, flip, clip bool, stepW, stepH, offset float32) *PriorBoxParams {
	return &PriorBoxParams{
		Name:         name,
		MinSizes:     minSizes,
		MaxSizes:     maxSizes,
		AspectRatios: aspectRatios,
		Variances:    variances,
		Flip:         flip,
		Clip:         clip,
		StepW:        stepW,
		StepH:        stepH,
		Offset:       offset,
	}
}

// Validate rejects misconfiguration before any box is computed. The generator
// itself assumes validated inputs.
func (p *PriorBoxParams) Validate() error {
	if len(p.MinSizes) == 0 {
		return errors.New("min_sizes must not be empty")
	}
	if len(p.MaxSizes) != 0 && len(p.MaxSizes) != len(p.MinSizes) {
		return errors.Errorf("max_sizes must be empty or match min_sizes length, got %d and %d", len(p.MaxSizes), len(p.MinSizes))
	}
	for i, v := range p.MinSizes {
		if v <= 0 {
			return errors.Errorf("min_sizes[%d] must be positive, got %f", i, v)
		}
	}
	for i, v := range p.MaxSizes {
		if v <= 0 {
			return errors.Errorf("max_sizes[%d] must be positive, got %f", i, v)
		}
	}
	for i, v := range p.AspectRatios {
		if v <= 0 {
			return errors.Errorf("aspect_ratios[%d] must be positive, got %f", i, v)
		}
	}
	if len(p.Variances) != 4 {
		return errors.Errorf("variances must hold exactly 4 values, got %d", len(p.Variances))
	}
	if p.Offset < 0 || p.Offset >= 1 {
		return errors.Errorf("offset must be in [0, 1), got %f", p.Offset)
	}
	if p.StepW < 0 || p.StepH < 0 {
		return errors.Errorf("steps must not be negative, got (%f, %f)", p.StepW, p.StepH)
	}
	return nil
}
