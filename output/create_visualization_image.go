package output

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/raster"
)

// VisualizationImage renders the default channel. Pixels whose dataMask is
// not 1 are transparent.
func VisualizationImage(products *raster.Products) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, products.Width, products.Height))
	for y := 0; y < products.Height; y++ {
		for x := 0; x < products.Width; x++ {
			i := y*products.Width + x
			if products.DataMask[i] != 1 {
				continue
			}
			px := products.Default[4*i : 4*i+4]
			img.SetNRGBA(x, y, color.NRGBA{
				R: channelByte(px[0]),
				G: channelByte(px[1]),
				B: channelByte(px[2]),
				A: 255,
			})
		}
	}
	return img
}

// IndexImage renders the index channel on a blue-green-red ramp. NaN is black.
func IndexImage(products *raster.Products) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, products.Width, products.Height))
	black := color.RGBA{A: 255}
	for y := 0; y < products.Height; y++ {
		for x := 0; x < products.Width; x++ {
			v := products.Index[y*products.Width+x]
			if math.IsNaN(v) {
				img.SetRGBA(x, y, black)
				continue
			}
			img.SetRGBA(x, y, valueToColor(normalize(v, indexMin, indexMax)))
		}
	}
	return img
}

func CreateVisualizationImage(products *raster.Products, outputPath string) (string, error) {
	if !strings.HasSuffix(outputPath, ".png") {
		outputPath += ".png"
	}
	file, err := create(outputPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := png.Encode(file, VisualizationImage(products)); err != nil {
		return "", fmt.Errorf("failed to encode PNG file: %w", err)
	}
	logger.Get().Debug().Str("path", outputPath).Msg("visualization image created")
	return outputPath, nil
}

func CreateIndexImage(products *raster.Products, outputPath string) (string, error) {
	if !strings.HasSuffix(outputPath, ".jpeg") {
		outputPath += ".jpeg"
	}
	file, err := create(outputPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := jpeg.Encode(file, IndexImage(products), &jpeg.Options{Quality: 100}); err != nil {
		return "", fmt.Errorf("failed to encode JPEG file: %w", err)
	}
	logger.Get().Debug().Str("path", outputPath).Msg("index image created")
	return outputPath, nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create result folder: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}
