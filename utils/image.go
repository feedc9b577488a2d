package utils

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gorgonia.org/tensor"
)

// ImageToOpenCV converts the raw image into OpenCV Matrix
func ImageToOpenCV(bImage []byte) (*gocv.Mat, error) {
	dstMat := gocv.Mat{}
	srcMat, err := gocv.IMDecode(bImage, gocv.IMReadUnchanged)
	if err != nil {
		return &gocv.Mat{}, err
	}

	// Add the rows, columns, and number of channel to the dimension
	dimension := []int{}
	dimension = append(dimension, srcMat.Size()...)
	dimension = append(dimension, srcMat.Channels())

	if len(dimension) < 3 {
		return &dstMat, errors.Errorf("invalid number of dimension: %d", len(dimension))
	}

	if dimension[2] == 4 { // RGBA
		gocv.CvtColor(srcMat, &dstMat, gocv.ColorBGRAToBGR)
	} else if dimension[2] == 1 { // Grayscale
		gocv.CvtColor(srcMat, &dstMat, gocv.ColorGrayToBGR)
	} else {
		dstMat = srcMat
	}
	return &dstMat, nil
}

// ImageToTensor converts a 3-channel OpenCV matrix into the NCHW float32
// image tensor consumed by the prior box operator, BGR reordered to RGB.
func ImageToTensor(img *gocv.Mat) (*tensor.Dense, error) {
	imgShape := img.Size()
	if len(imgShape) != 2 || img.Channels() != 3 {
		return nil, errors.Errorf("expected a 3-channel 2D matrix, got size %v with %d channels", imgShape, img.Channels())
	}

	imgTensor := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(1, 3, imgShape[0], imgShape[1]),
	)

	for z := 0; z < 3; z++ {
		for y := 0; y < imgShape[0]; y++ {
			for x := 0; x < imgShape[1]; x++ {
				err := imgTensor.SetAt(float32(img.GetVecbAt(y, x)[2-z]), 0, z, y, x)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return imgTensor, nil
}
