package engine

// reverbDelays are the four fixed, prime-like tap lengths (in samples) of
// the feedback delay network.
var reverbDelays = [4]int{1567, 2053, 3001, 4001}

// ReverbParams holds the two knobs the driver sets per invocation. Passed
// explicitly rather than kept as process-wide mutable state, per the
// preferred redesign: concurrent invocations in the same process can
// never observe crossed parameters because there is no shared state to
// cross.
type ReverbParams struct {
	Mix   float64
	Decay float64
}

// DefaultReverbDecay is the fixed feedback coefficient used by every
// preset; only Mix varies per instrument.
const DefaultReverbDecay = 0.8

// reverb is a four-tap feedback delay network. apply mixes its wet signal
// back into dry in place, channel-averaging the input per tap and writing
// the same wet value to every output channel.
type reverb struct {
	lines [4][]float64
	idx   [4]int
}

// newReverb allocates the four delay lines. Allocation cannot fail in Go
// the way a malloc-backed implementation can transiently fail; a reverb
// value is always fully usable once constructed.
func newReverb() *reverb {
	r := &reverb{}
	for i, n := range reverbDelays {
		r.lines[i] = make([]float64, n)
	}
	return r
}

// apply runs the FDN over dry (frames*channels, interleaved) and writes
// the mixed result back into the same buffer.
func (r *reverb) apply(dry []float64, frames, channels int, params ReverbParams) {
	for i := 0; i < frames; i++ {
		base := i * channels
		x := 0.0
		for ch := 0; ch < channels; ch++ {
			x += dry[base+ch]
		}
		x /= float64(channels)

		y := 0.0
		for t := 0; t < 4; t++ {
			line := r.lines[t]
			idx := r.idx[t]
			dOut := line[idx]
			line[idx] = 0.25*x + params.Decay*dOut
			r.idx[t] = (idx + 1) % len(line)
			y += dOut
		}
		y *= 0.5

		for ch := 0; ch < channels; ch++ {
			dry[base+ch] = (1-params.Mix)*dry[base+ch] + params.Mix*y
		}
	}
}
