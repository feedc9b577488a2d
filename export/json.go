package export

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	priorbox "github.com/okieraised/go-priorbox"
)

type jsonLayer struct {
	Name        string      `json:"name"`
	LayerHeight int         `json:"layer_height"`
	LayerWidth  int         `json:"layer_width"`
	NumPriors   int         `json:"num_priors"`
	Boxes       [][]float32 `json:"boxes"`
	Variances   [][]float32 `json:"variances"`
}

type jsonDocument struct {
	ImageHeight int         `json:"image_height"`
	ImageWidth  int         `json:"image_width"`
	Layers      []jsonLayer `json:"layers"`
}

// WriteJSON dumps the generated priors to an indented JSON file, one entry
// per layer with boxes and variances as [N][4] arrays.
func WriteJSON(path string, imgHeight, imgWidth int, layers []*priorbox.LayerPriors) error {
	doc := jsonDocument{
		ImageHeight: imgHeight,
		ImageWidth:  imgWidth,
		Layers:      make([]jsonLayer, 0, len(layers)),
	}

	for _, layer := range layers {
		doc.Layers = append(doc.Layers, jsonLayer{
			Name:        layer.Name,
			LayerHeight: layer.LayerHeight,
			LayerWidth:  layer.LayerWidth,
			NumPriors:   layer.NumPriors,
			Boxes:       toRows(layer.Boxes.Float32s()),
			Variances:   toRows(layer.Variances.Float32s()),
		})
	}

	enc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialise priors")
	}
	if err := os.WriteFile(path, enc, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return nil
}

func toRows(flat []float32) [][]float32 {
	rows := make([][]float32, 0, len(flat)/4)
	for i := 0; i+4 <= len(flat); i += 4 {
		rows = append(rows, flat[i:i+4])
	}
	return rows
}
