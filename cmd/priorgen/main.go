// Command priorgen generates SSD style prior boxes from a YAML pipeline
// description and writes them to a JSON or TFRecord file.
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorgonia.org/tensor"

	priorbox "github.com/okieraised/go-priorbox"
	"github.com/okieraised/go-priorbox/config"
	"github.com/okieraised/go-priorbox/export"
	"github.com/okieraised/go-priorbox/utils"
)

var (
	configPath string
	imagePath  string
	outPath    string
	outFormat  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "priorgen",
		Short:        "Generate SSD prior boxes from a pipeline config",
		RunE:         run,
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "pipeline config file (yaml)")
	rootCmd.Flags().StringVarP(&imagePath, "image", "i", "", "optional image file, overrides the configured image dimensions")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "priors.json", "output file")
	rootCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json|tfrecord")
	_ = rootCmd.MarkFlagRequired("config")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.LoadPipelineConfig(configPath)
	if err != nil {
		return err
	}

	image, err := imageTensor(cfg, logger)
	if err != nil {
		return err
	}
	imgHeight, imgWidth, err := utils.SpatialDims(image)
	if err != nil {
		return err
	}

	params := make([]*config.PriorBoxParams, 0, len(cfg.Layers))
	featureMaps := make([]*tensor.Dense, 0, len(cfg.Layers))
	for i := range cfg.Layers {
		layer := &cfg.Layers[i]
		params = append(params, &layer.PriorBoxParams)
		featureMaps = append(featureMaps, tensor.New(
			tensor.Of(tensor.Float32),
			tensor.WithShape(1, 1, layer.FeatureHeight, layer.FeatureWidth),
		))
	}

	pipeline, err := priorbox.NewPriorBoxPipeline(params...)
	if err != nil {
		return err
	}

	layers, err := pipeline.GenerateLayers(featureMaps, image)
	if err != nil {
		return err
	}

	totalBoxes := 0
	for _, layer := range layers {
		totalBoxes += layer.LayerHeight * layer.LayerWidth * layer.NumPriors
	}
	logger.Info("generated priors",
		zap.Int("layers", len(layers)),
		zap.Int("total_boxes", totalBoxes),
		zap.Int("image_height", imgHeight),
		zap.Int("image_width", imgWidth),
	)

	switch outFormat {
	case "json":
		err = export.WriteJSON(outPath, imgHeight, imgWidth, layers)
	case "tfrecord":
		err = export.WriteTFRecord(outPath, imgHeight, imgWidth, layers)
	default:
		err = errors.Errorf("unknown output format %q", outFormat)
	}
	if err != nil {
		return err
	}

	logger.Info("wrote priors", zap.String("path", outPath), zap.String("format", outFormat))
	return nil
}

// imageTensor materializes the image input, either decoded from a real file
// or allocated from the configured dimensions. The generator only reads its
// spatial dimensions.
func imageTensor(cfg *config.PipelineConfig, logger *zap.Logger) (*tensor.Dense, error) {
	if imagePath == "" {
		return tensor.New(
			tensor.Of(tensor.Float32),
			tensor.WithShape(1, 3, cfg.ImageHeight, cfg.ImageWidth),
		), nil
	}

	content, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image %q", imagePath)
	}
	mat, err := utils.ImageToOpenCV(content)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	logger.Info("decoded image", zap.String("path", imagePath), zap.Ints("size", mat.Size()))
	return utils.ImageToTensor(mat)
}
