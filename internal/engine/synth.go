package engine

import (
	"math"
	"math/rand"
)

// fluteNoiseSeed fixes the flute breath-noise source's seed so a
// resynthesis run is reproducible given the same input, matching the
// determinism requirement: every Process call starts a fresh *rand.Rand
// from this seed rather than sharing one across calls.
const fluteNoiseSeed = 1

// detuneFactor returns the per-oscillator detune multiplier: osc 0 is
// unison, osc 1 is detuned up by d semitones, osc 2 detuned down by d
// semitones, and osc 3 (used only by 4-oscillator presets) sits an octave
// below.
func detuneFactor(oscIndex int, detuneAmount float64) float64 {
	switch oscIndex {
	case 0:
		return 1.0
	case 1:
		return math.Pow(2, detuneAmount/12)
	case 2:
		return math.Pow(2, -detuneAmount/12)
	case 3:
		return 0.5
	default:
		return 1.0
	}
}

// oscillatorWeight returns the mix weight for one oscillator. Oscillator 3
// always carries octaveMix; the remaining oscillators split the rest
// evenly. numOscillators == 1 is guarded against division by zero (no
// preset uses it, per the open question in the design notes) by giving
// the lone oscillator zero weight rather than panicking.
func oscillatorWeight(oscIndex, numOscillators int, octaveMix float64) float64 {
	if oscIndex == 3 {
		return octaveMix
	}
	if numOscillators <= 1 {
		return 0
	}
	return (1 - octaveMix) / float64(numOscillators-1)
}

// synthesizer holds the per-pass mutable state: oscillator phases, the
// chorus/tremolo/filter LFOs, the running amplitude smoother, and the
// flute voice's breath-noise source. All of it is owned by a single
// render call and discarded afterward — nothing here survives across
// Process invocations or is shared between concurrent ones.
type synthesizer struct {
	phases    [4]float64
	lfos      *lfoSet
	smoothAmp float64
	noise     *rand.Rand
}

func newSynthesizer(preset InstrumentPreset, sampleRate int) *synthesizer {
	return &synthesizer{
		lfos:  newLFOSet(preset, sampleRate),
		noise: rand.New(rand.NewSource(fluteNoiseSeed)),
	}
}

// render drives the full synthesis pass over the whole buffer and returns
// the dry and chorus-delay buffers (both interleaved, frames*channels,
// float64 for headroom through the reverb stage).
func render(points []FrequencyPoint, frames, channels, sampleRate int,
	instrument InstrumentID, preset InstrumentPreset, freqMultiplier float64) (dry, chorus []float64) {

	dry = make([]float64, frames*channels)
	chorus = make([]float64, frames*channels)

	if len(points) == 0 {
		return dry, chorus
	}

	s := newSynthesizer(preset, sampleRate)

	noteLength := float64(frames) / float64(sampleRate)
	releaseStart := effectiveNoteLength(noteLength, preset.AttackTime, preset.DecayTime, preset.ReleaseTime)

	numWindows := len(points)
	for w := 0; w < numWindows; w++ {
		start := w * hopSize
		end := start + hopSize
		if end > frames || w == numWindows-1 {
			end = frames
		}
		if start >= frames {
			break
		}

		curr := points[w]
		next := curr
		if w+1 < numWindows {
			next = points[w+1]
		}
		windowLen := end - start
		if windowLen <= 0 {
			continue
		}

		for i := 0; i < windowLen; i++ {
			sampleIdx := start + i
			frac := float64(i) / float64(hopSize)
			if frac > 1 {
				frac = 1
			}
			instFreq := (curr.Frequency + (next.Frequency-curr.Frequency)*frac) * freqMultiplier

			s.smoothAmp = (1-ampSmooth)*s.smoothAmp + ampSmooth*curr.Amplitude

			t := float64(sampleIdx) / float64(sampleRate)
			env := adsr(t, preset.AttackTime, preset.DecayTime, preset.SustainLevel, preset.ReleaseTime, releaseStart)

			chorusMod, filterModAmount, tremoloAmount := s.lfos.advance(preset)

			sample := 0.0
			for o := 0; o < preset.NumOscillators; o++ {
				detune := detuneFactor(o, preset.DetuneAmount)
				phaseInc := 2 * math.Pi * (instFreq * detune) / float64(sampleRate)
				s.phases[o] = wrapPhase(s.phases[o] + phaseInc)

				oscSample := instrumentWave(s.phases[o], instrument, preset.WaveBlend,
					preset.Brightness*filterModAmount, preset.Harmonics, s.noise)

				weight := oscillatorWeight(o, preset.NumOscillators, preset.OctaveMix)
				sample += oscSample * weight
			}

			sample *= s.smoothAmp * env * masterVolume * tremoloAmount

			base := sampleIdx * channels
			for ch := 0; ch < channels; ch++ {
				dry[base+ch] = sample
			}

			if preset.ChorusMix > 0 {
				delaySamples := int(math.Round((0.02 + 0.01*chorusMod) * float64(sampleRate)))
				target := sampleIdx + delaySamples
				if target < frames {
					tbase := target * channels
					for ch := 0; ch < channels; ch++ {
						chorus[tbase+ch] += sample * preset.ChorusMix
					}
				}
			}
		}
	}

	return dry, chorus
}

// mergeChorus folds the chorus-delay buffer back into dry per spec:
// dry[i] <- dry[i]*(1-chorusMix) + chorus[i].
func mergeChorus(dry, chorus []float64, chorusMix float64) {
	for i := range dry {
		dry[i] = dry[i]*(1-chorusMix) + chorus[i]
	}
}
