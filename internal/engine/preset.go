package engine

// InstrumentPreset fully parameterizes the synth chain for one timbre.
// All fields are in natural units: seconds for times, Hz for rates,
// 0..1 for dimensionless mixes and depths.
type InstrumentPreset struct {
	Name string

	NumOscillators int
	DetuneAmount   float64

	AttackTime   float64
	DecayTime    float64
	SustainLevel float64
	ReleaseTime  float64
	OctaveMix    float64

	ChorusRate  float64
	ChorusDepth float64
	ChorusMix   float64
	ReverbMix   float64

	WaveBlend  float64
	Brightness float64
	Harmonics  float64

	TremoloRate  float64
	TremoloDepth float64
	FilterMod    float64
}

// presets is the fixed, indexed table of ten instrument voices. Indices
// match InstrumentID. Immutable; never mutated after package init.
var presets = [...]InstrumentPreset{
	InstrumentPad: {
		Name: "pad", NumOscillators: 4, DetuneAmount: 0.15,
		AttackTime: 0.8, DecayTime: 0.5, SustainLevel: 0.7, ReleaseTime: 1.2, OctaveMix: 0.25,
		ChorusRate: 0.8, ChorusDepth: 0.3, ChorusMix: 0.35, ReverbMix: 0.6,
		WaveBlend: 0.5, Brightness: 0.5, Harmonics: 0.3,
		TremoloRate: 0.0, TremoloDepth: 0.0, FilterMod: 0.2,
	},
	InstrumentPluck: {
		Name: "pluck", NumOscillators: 2, DetuneAmount: 0.08,
		AttackTime: 0.01, DecayTime: 0.3, SustainLevel: 0.2, ReleaseTime: 0.1, OctaveMix: 0.2,
		ChorusRate: 0.0, ChorusDepth: 0.0, ChorusMix: 0.0, ReverbMix: 0.3,
		WaveBlend: 0.0, Brightness: 0.8, Harmonics: 0.7,
		TremoloRate: 0.0, TremoloDepth: 0.0, FilterMod: 0.1,
	},
	InstrumentBrass: {
		Name: "brass", NumOscillators: 2, DetuneAmount: 0.1,
		AttackTime: 0.1, DecayTime: 0.1, SustainLevel: 0.8, ReleaseTime: 0.2, OctaveMix: 0.2,
		ChorusRate: 0.3, ChorusDepth: 0.15, ChorusMix: 0.15, ReverbMix: 0.2,
		WaveBlend: 0.0, Brightness: 0.7, Harmonics: 0.6,
		TremoloRate: 5.0, TremoloDepth: 0.1, FilterMod: 0.3,
	},
	InstrumentFlute: {
		Name: "flute", NumOscillators: 2, DetuneAmount: 0.05,
		AttackTime: 0.15, DecayTime: 0.1, SustainLevel: 0.7, ReleaseTime: 0.15, OctaveMix: 0.15,
		ChorusRate: 0.2, ChorusDepth: 0.1, ChorusMix: 0.1, ReverbMix: 0.3,
		WaveBlend: 0.0, Brightness: 0.5, Harmonics: 0.4,
		TremoloRate: 4.0, TremoloDepth: 0.15, FilterMod: 0.1,
	},
	InstrumentStrings: {
		Name: "strings", NumOscillators: 3, DetuneAmount: 0.12,
		AttackTime: 0.2, DecayTime: 0.1, SustainLevel: 0.7, ReleaseTime: 0.3, OctaveMix: 0.2,
		ChorusRate: 0.6, ChorusDepth: 0.2, ChorusMix: 0.25, ReverbMix: 0.5,
		WaveBlend: 0.0, Brightness: 0.6, Harmonics: 0.5,
		TremoloRate: 3.0, TremoloDepth: 0.05, FilterMod: 0.25,
	},
	InstrumentOrgan: {
		Name: "organ", NumOscillators: 3, DetuneAmount: 0.05,
		AttackTime: 0.01, DecayTime: 0.0, SustainLevel: 1.0, ReleaseTime: 0.05, OctaveMix: 0.1,
		ChorusRate: 0.0, ChorusDepth: 0.0, ChorusMix: 0.0, ReverbMix: 0.3,
		WaveBlend: 0.0, Brightness: 0.8, Harmonics: 1.0,
		TremoloRate: 0.0, TremoloDepth: 0.0, FilterMod: 0.0,
	},
	InstrumentBell: {
		Name: "bell", NumOscillators: 2, DetuneAmount: 0.1,
		AttackTime: 0.01, DecayTime: 0.5, SustainLevel: 0.1, ReleaseTime: 0.8, OctaveMix: 0.3,
		ChorusRate: 0.4, ChorusDepth: 0.2, ChorusMix: 0.2, ReverbMix: 0.6,
		WaveBlend: 0.0, Brightness: 0.9, Harmonics: 0.8,
		TremoloRate: 0.0, TremoloDepth: 0.0, FilterMod: 0.1,
	},
	InstrumentBass: {
		Name: "bass", NumOscillators: 2, DetuneAmount: 0.04,
		AttackTime: 0.02, DecayTime: 0.1, SustainLevel: 0.8, ReleaseTime: 0.1, OctaveMix: 0.15,
		ChorusRate: 0.0, ChorusDepth: 0.0, ChorusMix: 0.0, ReverbMix: 0.1,
		WaveBlend: 0.6, Brightness: 0.4, Harmonics: 0.0,
		TremoloRate: 0.0, TremoloDepth: 0.0, FilterMod: 0.0,
	},
	InstrumentWurlitzer: {
		Name: "wurlitzer", NumOscillators: 2, DetuneAmount: 0.06,
		AttackTime: 0.01, DecayTime: 0.4, SustainLevel: 0.3, ReleaseTime: 0.2, OctaveMix: 0.2,
		ChorusRate: 0.5, ChorusDepth: 0.15, ChorusMix: 0.2, ReverbMix: 0.3,
		WaveBlend: 0.0, Brightness: 0.7, Harmonics: 0.3,
		TremoloRate: 6.0, TremoloDepth: 0.2, FilterMod: 0.15,
	},
	InstrumentAcid: {
		Name: "acid", NumOscillators: 2, DetuneAmount: 0.02,
		AttackTime: 0.01, DecayTime: 0.3, SustainLevel: 0.7, ReleaseTime: 0.1, OctaveMix: 0.1,
		ChorusRate: 0.0, ChorusDepth: 0.0, ChorusMix: 0.0, ReverbMix: 0.15,
		WaveBlend: 0.0, Brightness: 0.9, Harmonics: 0.9,
		TremoloRate: 0.0, TremoloDepth: 0.0, FilterMod: 0.4,
	},
}

// Preset returns the immutable preset for an instrument id. Callers must
// check id.Valid() first; an out-of-range id returns the pad preset.
func Preset(id InstrumentID) InstrumentPreset {
	if !id.Valid() {
		return presets[InstrumentPad]
	}
	return presets[id]
}
