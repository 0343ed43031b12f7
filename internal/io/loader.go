// Frame loading for the keypoint preview
package io

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// FrameLoader reads preview frames from disk or synthesises one.
type FrameLoader struct {
	logger logrus.FieldLogger
}

func NewFrameLoader(logger logrus.FieldLogger) *FrameLoader {
	return &FrameLoader{
		logger: logger,
	}
}

// LoadFrame reads a colour frame. The caller closes the returned Mat.
func (fl *FrameLoader) LoadFrame(path string) (gocv.Mat, error) {
	fl.logger.WithField("path", path).Debug("Loading frame")

	if !IsSupportedFormat(path) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to load image: %s", path)
	}

	fl.logger.WithFields(logrus.Fields{
		"path":     path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Frame loaded")
	return mat, nil
}

// SyntheticFrame draws a high-contrast test pattern with plenty of corners.
func (fl *FrameLoader) SyntheticFrame(width, height int) gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), height, width, gocv.MatTypeCV8UC3)

	white := color.RGBA{R: 235, G: 235, B: 235, A: 255}
	grey := color.RGBA{R: 140, G: 140, B: 140, A: 255}
	cell := max(width/12, 8)
	for y := cell; y+cell < height; y += 2 * cell {
		for x := cell; x+cell < width; x += 2 * cell {
			c := white
			if (x/cell+y/cell)%4 == 0 {
				c = grey
			}
			gocv.Rectangle(&mat, image.Rect(x, y, x+cell, y+cell), c, -1)
		}
	}
	gocv.Circle(&mat, image.Pt(width/2, height/2), min(width, height)/5, white, 3)

	fl.logger.WithFields(logrus.Fields{"width": width, "height": height}).Debug("Synthetic frame created")
	return mat
}

// IsSupportedFormat reports whether path has an image extension OpenCV reads.
func IsSupportedFormat(path string) bool {
	return slices.Contains(supportedFormats, strings.ToLower(filepath.Ext(path)))
}
