package engine

import "math"

// adsr evaluates the documented four-stage envelope at time t, given an
// attack/decay/sustain/release specification and an (already-clamped)
// effective note length.
func adsr(t, attack, decay, sustain, release, noteLength float64) float64 {
	switch {
	case t < attack:
		if attack <= 0 {
			return 1
		}
		return t / attack
	case t < attack+decay:
		if decay <= 0 {
			return sustain
		}
		return 1 - (1-sustain)*(t-attack)/decay
	case t < noteLength:
		return sustain
	case t < noteLength+release:
		if release <= 0 {
			return 0
		}
		return sustain * (1 - (t-noteLength)/release)
	default:
		return 0
	}
}

// effectiveNoteLength derives the release_start the driver passes as the
// envelope's note_length, so long releases stay audible on short inputs.
func effectiveNoteLength(noteLength, attack, decay, release float64) float64 {
	return math.Max(noteLength-1.5*release, attack+decay+0.1)
}

// lfoSet holds the three independent modulation oscillators: chorus,
// tremolo and filter sweep. Phases advance every sample regardless of
// whether a given LFO's effect is active, preserving phase relationships
// across presets that do and don't use it.
type lfoSet struct {
	chorusPhase  float64
	tremoloPhase float64
	filterPhase  float64
	chorusRate   float64
	tremoloRate  float64
	sampleRate   int
}

const filterLFORate = 0.1

func newLFOSet(preset InstrumentPreset, sampleRate int) *lfoSet {
	return &lfoSet{
		chorusRate:  preset.ChorusRate,
		tremoloRate: preset.TremoloRate,
		sampleRate:  sampleRate,
	}
}

// advance steps all three LFOs by one sample and returns their derived
// modulation outputs for that sample.
func (l *lfoSet) advance(preset InstrumentPreset) (chorusMod, filterModAmount, tremoloAmount float64) {
	l.chorusPhase = wrapPhase(l.chorusPhase + 2*math.Pi*l.chorusRate/float64(l.sampleRate))
	l.tremoloPhase = wrapPhase(l.tremoloPhase + 2*math.Pi*l.tremoloRate/float64(l.sampleRate))
	l.filterPhase = wrapPhase(l.filterPhase + 2*math.Pi*filterLFORate/float64(l.sampleRate))

	chorusMod = preset.ChorusDepth * math.Sin(l.chorusPhase)
	filterModAmount = 0.5 + 0.5*math.Sin(l.filterPhase)*preset.FilterMod

	tremoloAmount = 1.0
	if preset.TremoloRate != 0 {
		tremoloAmount = 1 - preset.TremoloDepth*(0.5+0.5*math.Sin(l.tremoloPhase))
	}
	return chorusMod, filterModAmount, tremoloAmount
}

func wrapPhase(phase float64) float64 {
	const twoPi = 2 * math.Pi
	for phase >= twoPi {
		phase -= twoPi
	}
	for phase < 0 {
		phase += twoPi
	}
	return phase
}
