// Package classifier holds the per-pixel snow and cloud decision function
// applied to Sentinel-2 L2A reflectances.
package classifier

import "math"

const (
	// SnowIndexThreshold is the NDSI (green/SWIR1) value a pixel must exceed to be snow.
	SnowIndexThreshold = 0.42
	// SnowNIRThreshold separates snow from water, which has a similar NDSI but a dark NIR.
	SnowNIRThreshold = 0.11

	// CloudGreenLow and CloudGreenHigh bound the B03 reflectance range the
	// brightness ratio is measured against. Above the high end the surface is
	// saturated, as dense cloud is.
	CloudGreenLow  = 0.175
	CloudGreenHigh = 0.39

	// TrueColorGain brightens L2A reflectances for display.
	TrueColorGain = 2.5
)

// SnowTint is the color painted over snow pixels, independent of their brightness.
var SnowTint = [3]float64{0, 0.8, 1.0}

// PixelSample is one pixel of the evalscript input: B03, B11, B04, B02, B08 and dataMask.
type PixelSample struct {
	Green    float64
	SWIR1    float64
	Red      float64
	Blue     float64
	NIR      float64
	DataMask float64
}

// PixelResult mirrors the four declared output channels.
type PixelResult struct {
	Default  [4]float64 // visualization RGB + dataMask
	Index    [1]float64 // masked snow index, NaN when no data
	Stats    [2]float64 // raw snow index, cloud flag
	DataMask [1]float64
}

// NormalizedDifference returns (a-b)/(a+b). A zero sum is not guarded: the
// result is ±Inf or NaN, as plain float division gives.
func NormalizedDifference(a, b float64) float64 {
	return (a - b) / (a + b)
}

// SnowIndex is the normalized difference of green and SWIR1 (NDSI).
func SnowIndex(s PixelSample) float64 {
	return NormalizedDifference(s.Green, s.SWIR1)
}

// BrightnessRatio places green reflectance on the [CloudGreenLow, CloudGreenHigh] scale.
func BrightnessRatio(green float64) float64 {
	return (green - CloudGreenLow) / (CloudGreenHigh - CloudGreenLow)
}

// IsSnow reports whether the pixel is snow-like. Both comparisons are strict.
func IsSnow(s PixelSample) bool {
	return snowLike(SnowIndex(s), s.NIR)
}

// IsCloud reports whether the pixel is cloud-like. It does not depend on IsSnow.
func IsCloud(s PixelSample) bool {
	return cloudLike(BrightnessRatio(s.Green), NormalizedDifference(s.Green, s.Red))
}

func snowLike(index, nir float64) bool {
	return index > SnowIndexThreshold && nir > SnowNIRThreshold
}

func cloudLike(ratio, greenRed float64) bool {
	return ratio > 1 || (ratio > 0 && greenRed > 0)
}

// Classify evaluates one pixel. It never fails: every input, including NaN
// and out of range values, produces a numeric result.
//
// The index channel is masked with NaN unless DataMask is exactly 1, while
// Stats[0] always carries the raw index. Single band GeoTIFF consumers only
// understand the NaN convention, the statistics do their own masking.
func Classify(s PixelSample) PixelResult {
	index := SnowIndex(s)

	var r PixelResult
	if snowLike(index, s.NIR) {
		r.Default = [4]float64{SnowTint[0], SnowTint[1], SnowTint[2], s.DataMask}
	} else {
		r.Default = [4]float64{TrueColorGain * s.Red, TrueColorGain * s.Green, TrueColorGain * s.Blue, s.DataMask}
	}

	if s.DataMask == 1 {
		r.Index[0] = index
	} else {
		r.Index[0] = math.NaN()
	}

	cloud := 0.0
	if IsCloud(s) {
		cloud = 1
	}
	r.Stats = [2]float64{index, cloud}
	r.DataMask[0] = s.DataMask
	return r
}
