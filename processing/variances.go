package processing

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// BroadcastVariances replicates the 4-element variance vector into a
// [boxCount, 4] tensor, one row per generated prior. boxCount must match the
// number of boxes the generator actually emitted for the same configuration.
func BroadcastVariances(variances []float32, boxCount int) (*tensor.Dense, error) {
	if len(variances) != 4 {
		return nil, errors.Errorf("expected exactly 4 variance values, got %d", len(variances))
	}
	if boxCount <= 0 {
		return nil, errors.Errorf("box count must be positive, got %d", boxCount)
	}

	backing := make([]float32, boxCount*len(variances))
	for i := 0; i < boxCount; i++ {
		copy(backing[i*4:(i+1)*4], variances)
	}

	return tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(boxCount, 4),
		tensor.WithBacking(backing),
	), nil
}
