package classifier

import "fmt"

type SampleType string

const (
	SampleTypeFloat32 SampleType = "FLOAT32"
	SampleTypeUint8   SampleType = "UINT8"
)

// Channel ids, as the evalscript declares them.
const (
	ChannelDefault  = "default"
	ChannelIndex    = "index"
	ChannelStats    = "eobrowserStats"
	ChannelDataMask = "dataMask"
)

type OutputChannel struct {
	ID         string
	Bands      int
	SampleType SampleType
}

// Setup declares the input bands and output channels. Build it once with
// DefaultSetup and share it; nothing mutates it after construction.
type Setup struct {
	Input  []string
	Output []OutputChannel
}

func DefaultSetup() *Setup {
	return &Setup{
		Input: []string{"B03", "B11", "B04", "B02", "B08", "dataMask"},
		Output: []OutputChannel{
			{ID: ChannelDefault, Bands: 4, SampleType: SampleTypeFloat32},
			{ID: ChannelIndex, Bands: 1, SampleType: SampleTypeFloat32},
			{ID: ChannelStats, Bands: 2, SampleType: SampleTypeFloat32},
			{ID: ChannelDataMask, Bands: 1, SampleType: SampleTypeFloat32},
		},
	}
}

// Channel returns the declared shape of an output channel.
func (s *Setup) Channel(id string) (OutputChannel, error) {
	for _, ch := range s.Output {
		if ch.ID == id {
			return ch, nil
		}
	}
	return OutputChannel{}, fmt.Errorf("unknown output channel %q", id)
}

// Values returns the result values of one channel, in declared band order.
func (r PixelResult) Values(id string) []float64 {
	switch id {
	case ChannelDefault:
		return r.Default[:]
	case ChannelIndex:
		return r.Index[:]
	case ChannelStats:
		return r.Stats[:]
	case ChannelDataMask:
		return r.DataMask[:]
	}
	return nil
}
