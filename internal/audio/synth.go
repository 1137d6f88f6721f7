package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	impactDuration = 120 * time.Millisecond
	impactLow      = 196.0
	impactHigh     = 392.0
)

// decay fades a stream linearly to silence over total samples.
type decay struct {
	beep.Streamer
	position int
	total    int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.Streamer.Stream(samples)
	for i := range n {
		gain := 1 - float64(d.position)/float64(d.total)
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.position++
	}
	return n, ok
}

// gain wraps s in a volume effect. Log2 of zero is -Inf, so silence is explicit.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// ImpactTone builds the fallback impact cue: two sine partials with a
// linear decay.
func ImpactTone(sampleRate int, volume float64) (beep.Streamer, error) {
	rate := beep.SampleRate(sampleRate)
	low, err := generators.SineTone(rate, impactLow)
	if err != nil {
		return nil, fmt.Errorf("audio: impact tone: %w", err)
	}
	high, err := generators.SineTone(rate, impactHigh)
	if err != nil {
		return nil, fmt.Errorf("audio: impact tone: %w", err)
	}

	n := rate.N(impactDuration)
	mixed := beep.Mix(gain(low, 0.7), gain(high, 0.3))
	return gain(&decay{Streamer: beep.Take(n, mixed), total: n}, volume), nil
}

// Render encodes s as 16-bit signed little-endian stereo PCM until it ends.
func Render(s beep.Streamer, sampleRate int) []byte {
	format := beep.Format{SampleRate: beep.SampleRate(sampleRate), NumChannels: 2, Precision: 2}
	frame := make([]byte, format.Width())
	buf := make([][2]float64, 512)

	var pcm []byte
	for {
		n, ok := s.Stream(buf)
		for i := range n {
			format.EncodeSigned(frame, buf[i])
			pcm = append(pcm, frame...)
		}
		if !ok {
			return pcm
		}
	}
}

// Synthesize renders the impact tone to PCM.
func Synthesize(sampleRate int, volume float64) ([]byte, error) {
	tone, err := ImpactTone(sampleRate, volume)
	if err != nil {
		return nil, err
	}
	return Render(tone, sampleRate), nil
}
