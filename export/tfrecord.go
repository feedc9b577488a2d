package export

import (
	"os"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"

	priorbox "github.com/okieraised/go-priorbox"
)

// WriteTFRecord serialises the generated priors to a TFRecord file with one
// tensorflow.Example per layer. Box coordinates are stored as the usual
// normalized xmin/ymin/xmax/ymax float lists.
func WriteTFRecord(path string, imgHeight, imgWidth int, layers []*priorbox.LayerPriors) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create the record file %q", path)
	}
	defer f.Close()

	for _, layer := range layers {
		coords := layer.Boxes.Float32s()
		numBoxes := len(coords) / 4

		xmins := make([]float32, numBoxes)
		ymins := make([]float32, numBoxes)
		xmaxs := make([]float32, numBoxes)
		ymaxs := make([]float32, numBoxes)
		for i := 0; i < numBoxes; i++ {
			xmins[i] = coords[i*4+0]
			ymins[i] = coords[i*4+1]
			xmaxs[i] = coords[i*4+2]
			ymaxs[i] = coords[i*4+3]
		}

		features := make(map[string]interface{}, 16)
		features["image/height"] = imgHeight
		features["image/width"] = imgWidth
		features["layer/name"] = layer.Name
		features["layer/height"] = layer.LayerHeight
		features["layer/width"] = layer.LayerWidth
		features["prior/count"] = numBoxes
		features["prior/bbox/xmin"] = xmins
		features["prior/bbox/ymin"] = ymins
		features["prior/bbox/xmax"] = xmaxs
		features["prior/bbox/ymax"] = ymaxs
		features["prior/variance"] = layer.Variances.Float32s()

		enc, err := proto.Marshal(example.New(features))
		if err != nil {
			return errors.Wrapf(err, "failed to serialise layer %q", layer.Name)
		}
		if err := tfrecord.Write(f, enc); err != nil {
			return errors.Wrapf(err, "failed to write layer %q", layer.Name)
		}
	}

	return nil
}
