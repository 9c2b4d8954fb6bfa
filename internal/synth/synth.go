// Package synth implements the synthesis workload whose cost the
// benchmark measures. Each voice is a detuned saw oscillator with a
// sine vibrato and a linear attack/release envelope; the number of
// sounding voices is the load knob the scheduler drives.
package synth

import "math"

const (
	baseFreq = 442.0
	oscGain  = 0.05

	attackSeconds  = 0.005
	releaseSeconds = 0.050

	vibratoFreq  = 5.0
	vibratoCents = 12.0
)

func noteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}

type voice struct {
	freq       float64
	phase01    float64
	lfoPhase01 float64
	env        float64
	on         bool
}

func (v *voice) noteOn(freq float64) {
	v.freq = freq
	v.on = true
}

func (v *voice) noteOff() {
	v.on = false
}

func (v *voice) active() bool {
	return v.on || v.env > 0
}

// Synth renders a pool of voices into mono bursts.
type Synth struct {
	sampleRate  int
	voices      []*voice
	attackStep  float64
	releaseStep float64
}

// New creates a synth with a fixed voice pool.
func New(sampleRate, maxVoices int) *Synth {
	voices := make([]*voice, maxVoices)
	for i := range voices {
		// Spread initial phases so voices don't sum coherently.
		voices[i] = &voice{phase01: float64(i) / float64(maxVoices)}
	}
	return &Synth{
		sampleRate:  sampleRate,
		voices:      voices,
		attackStep:  1 / (attackSeconds * float64(sampleRate)),
		releaseStep: 1 / (releaseSeconds * float64(sampleRate)),
	}
}

// MaxVoices returns the size of the voice pool.
func (s *Synth) MaxVoices() int { return len(s.voices) }

// NoteOn starts count voices on a stacked-fourths chord. Counts beyond
// the pool size are capped.
func (s *Synth) NoteOn(count int) {
	if count > len(s.voices) {
		count = len(s.voices)
	}
	for i := 0; i < count; i++ {
		s.voices[i].noteOn(noteToFreq(40 + (i*5)%36))
	}
}

// NoteOff releases every sounding voice.
func (s *Synth) NoteOff() {
	for _, v := range s.voices {
		v.noteOff()
	}
}

// ActiveVoices returns the number of voices currently producing output.
func (s *Synth) ActiveVoices() int {
	n := 0
	for _, v := range s.voices {
		if v.active() {
			n++
		}
	}
	return n
}

// RenderBurst overwrites out with the mix of all active voices.
func (s *Synth) RenderBurst(out []float32) {
	for i := range out {
		out[i] = 0
	}
	secPerSample := 1 / float64(s.sampleRate)
	for _, v := range s.voices {
		if !v.active() {
			continue
		}
		for i := range out {
			vib := math.Sin(2 * math.Pi * v.lfoPhase01)
			freq := v.freq * math.Pow(2, vib*vibratoCents/1200)

			// Saw in [-1, 1).
			sample := v.phase01*2 - 1

			if v.on {
				v.env += s.attackStep
				if v.env > 1 {
					v.env = 1
				}
			} else {
				v.env -= s.releaseStep
				if v.env < 0 {
					v.env = 0
				}
			}
			out[i] += float32(sample * v.env * oscGain)

			v.phase01 += freq * secPerSample
			_, v.phase01 = math.Modf(v.phase01)
			v.lfoPhase01 += vibratoFreq * secPerSample
			_, v.lfoPhase01 = math.Modf(v.lfoPhase01)

			if !v.on && v.env == 0 {
				break
			}
		}
	}
}
