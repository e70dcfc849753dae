package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSetup(t *testing.T) {
	setup := DefaultSetup()

	assert.Equal(t, []string{"B03", "B11", "B04", "B02", "B08", "dataMask"}, setup.Input)

	bands := map[string]int{ChannelDefault: 4, ChannelIndex: 1, ChannelStats: 2, ChannelDataMask: 1}
	for id, n := range bands {
		ch, err := setup.Channel(id)
		require.NoError(t, err)
		assert.Equal(t, n, ch.Bands, id)
		assert.Equal(t, SampleTypeFloat32, ch.SampleType, id)
	}

	_, err := setup.Channel("ndvi")
	assert.Error(t, err)
}

func TestPixelResultValuesMatchDeclaredBands(t *testing.T) {
	setup := DefaultSetup()
	r := Classify(PixelSample{Green: 0.3, SWIR1: 0.1, Red: 0.2, Blue: 0.2, NIR: 0.2, DataMask: 1})

	for _, ch := range setup.Output {
		assert.Len(t, r.Values(ch.ID), ch.Bands, ch.ID)
	}
	assert.Nil(t, r.Values("unknown"))
}
