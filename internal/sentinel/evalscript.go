package sentinel

import (
	"fmt"
	"strings"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
)

// BandsEvalscript asks the Process API for the raw classifier inputs, one
// FLOAT32 band each, in setup order. Classification then runs locally.
func BandsEvalscript(setup *classifier.Setup) string {
	quoted := make([]string, len(setup.Input))
	samples := make([]string, len(setup.Input))
	for i, band := range setup.Input {
		quoted[i] = fmt.Sprintf("%q", band)
		samples[i] = "sample." + band
	}

	return fmt.Sprintf(`
    //VERSION=3
    function setup() {
      return {
        input: [%s],
        output: {
          id: "default",
          bands: %d,
          sampleType: SampleType.FLOAT32,
        },
      }
    }

    function evaluatePixel(sample) {
      return [%s];
    }
  `, strings.Join(quoted, ", "), len(setup.Input), strings.Join(samples, ", "))
}

// BrowserEvalscript renders the same product inside the Copernicus Browser,
// to compare its rendering against the local one.
const BrowserEvalscript = `//VERSION=3
function setup() {
  return {
    input: ["B03", "B11", "B04", "B02", "B08", "dataMask"],
    output: [
      { id: "default", bands: 4 },
      { id: "index", bands: 1, sampleType: "FLOAT32" },
      { id: "eobrowserStats", bands: 2, sampleType: "FLOAT32" },
      { id: "dataMask", bands: 1 }
    ]
  };
}

function evaluatePixel(samples) {
  let val = (samples.B03 - samples.B11) / (samples.B03 + samples.B11);
  // single band tiffs only carry no data as NaN
  const indexVal = samples.dataMask === 1 ? val : NaN;

  let imgVals;
  if (val > 0.42 && samples.B08 > 0.11)
    imgVals = [0, 0.8, 1, samples.dataMask];
  else
    imgVals = [2.5 * samples.B04, 2.5 * samples.B03, 2.5 * samples.B02, samples.dataMask];

  const ndgr = (samples.B03 - samples.B04) / (samples.B03 + samples.B04);
  const bRatio = (samples.B03 - 0.175) / (0.39 - 0.175);
  const isCloud = bRatio > 1 || (bRatio > 0 && ndgr > 0);

  return {
    default: imgVals,
    index: [indexVal],
    eobrowserStats: [val, isCloud ? 1 : 0],
    dataMask: [samples.dataMask]
  };
}
`
