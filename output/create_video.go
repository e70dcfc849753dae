package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/icza/mjpeg"
)

// framesPerSecond of the lake time-lapse.
const framesPerSecond = 2

// CreateVideoFromImages writes an MJPEG AVI with one frame per image, in
// order. Frames are not scaled; they are padded or cropped to the size of
// the first image.
func CreateVideoFromImages(imagePaths []string, outputPath string) (string, error) {
	if len(imagePaths) == 0 {
		return "", errors.New("no images provided")
	}
	if !strings.HasSuffix(outputPath, ".avi") {
		outputPath += ".avi"
	}

	first, err := decode(imagePaths[0])
	if err != nil {
		return "", err
	}
	bounds := first.Bounds()

	writer, err := mjpeg.New(outputPath, int32(bounds.Dx()), int32(bounds.Dy()), framesPerSecond)
	if err != nil {
		return "", fmt.Errorf("failed to create video writer: %w", err)
	}

	for _, path := range imagePaths {
		img, err := decode(path)
		if err != nil {
			writer.Close()
			return "", err
		}
		frame := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(frame, frame.Bounds(), img, img.Bounds().Min, draw.Src)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 100}); err != nil {
			writer.Close()
			return "", err
		}
		if err := writer.AddFrame(buf.Bytes()); err != nil {
			writer.Close()
			return "", err
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish video: %w", err)
	}
	return outputPath, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}
