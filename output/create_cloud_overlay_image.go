package output

import (
	"fmt"
	"image/jpeg"
	"strings"

	"github.com/fogleman/gg"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/raster"
)

const legendHeight = 30

type legendItem struct {
	label   string
	r, g, b float64
}

var legend = []legendItem{
	{"snow", 0, 0.8, 1},
	{"cloud", 1, 0.3, 0.3},
	{"no data", 0, 0, 0},
}

// CreateCloudOverlayImage draws the visualization with the cloud flag of
// every pixel shaded on top and a legend strip below it.
func CreateCloudOverlayImage(products *raster.Products, outputPath string) (string, error) {
	if !strings.HasSuffix(outputPath, ".jpeg") {
		outputPath += ".jpeg"
	}
	width, height := products.Width, products.Height

	dc := gg.NewContext(width, height+legendHeight)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.DrawImage(VisualizationImage(products), 0, 0)

	dc.SetRGBA(1, 0.3, 0.3, 0.5)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if products.Stats[2*(y*width+x)+1] == 1 {
				dc.DrawRectangle(float64(x), float64(y), 1, 1)
			}
		}
	}
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(0, float64(height), float64(width), legendHeight)
	dc.Fill()
	legendY := float64(height) + 8
	for i, item := range legend {
		x := 10 + float64(i)*80
		dc.SetRGB(item.r, item.g, item.b)
		dc.DrawRectangle(x, legendY, 15, 15)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(x, legendY, 15, 15)
		dc.SetLineWidth(1)
		dc.Stroke()
		dc.DrawStringAnchored(item.label, x+20, legendY+7, 0, 0.5)
	}

	file, err := create(outputPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := jpeg.Encode(file, dc.Image(), &jpeg.Options{Quality: 90}); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	logger.Get().Debug().Str("path", outputPath).Msg("cloud overlay image created")
	return outputPath, nil
}
