package optimizer

import (
	"fmt"
	"math"

	"github.com/tphakala/go-helmholtz/internal/acoustic"
	"github.com/tphakala/go-helmholtz/internal/mathutil"
)

// Targets are the acoustic goals of a search.
type Targets struct {
	Frequency float64 `json:"frequency"` // Hz
	Q         float64 `json:"q"`
}

// Validate checks both targets are finite and positive.
func (t Targets) Validate() error {
	if !mathutil.IsFinite(t.Frequency) || t.Frequency <= 0 {
		return fmt.Errorf("%w: target frequency must be > 0, got %g", ErrInvalidTargets, t.Frequency)
	}
	if !mathutil.IsFinite(t.Q) || t.Q <= 0 {
		return fmt.Errorf("%w: target Q must be > 0, got %g", ErrInvalidTargets, t.Q)
	}
	return nil
}

// Evaluation is the score of one vector plus the simulated quantities behind it.
type Evaluation struct {
	Score              float64 `json:"score"`
	ResonanceFrequency float64 `json:"resonance_frequency"`
	PeakAbsorptionArea float64 `json:"peak_absorption_area"`
	MaxAbsorptionArea  float64 `json:"max_absorption_area"` // λ²/(2π) at resonance
	Q                  float64 `json:"q_factor"`
	QDefined           bool    `json:"q_defined"`

	// Err is the construction or simulation failure; Score is FailureScore.
	Err error `json:"-"`
}

// Objective scores resonator vectors against Targets. It holds no mutable
// state and is safe for concurrent use.
type Objective struct {
	Targets         Targets
	Medium          acoustic.Medium
	ValuesPerOctave int
}

// NewObjective returns an objective in default air.
func NewObjective(t Targets, valuesPerOctave int) Objective {
	if valuesPerOctave <= 0 {
		valuesPerOctave = DefaultValuesPerOctave
	}
	return Objective{Targets: t, Medium: acoustic.DefaultMedium(), ValuesPerOctave: valuesPerOctave}
}

// Resonator builds the cuboid cavity with a damped tube aperture described by v.
func Resonator(v Vector) (acoustic.Resonator, error) {
	geo, err := acoustic.NewCuboid(v[ParamX], v[ParamY], v[ParamZ])
	if err != nil {
		return acoustic.Resonator{}, err
	}
	ap, err := acoustic.NewAperture(acoustic.ApertureSpec{
		Form:    acoustic.FormTube,
		Length:  v[ParamLength],
		Radius:  v[ParamRadius],
		Damping: true,
		Xi:      v[ParamXi],
	})
	if err != nil {
		return acoustic.Resonator{}, err
	}
	return acoustic.NewResonator(geo, ap), nil
}

// Grid returns the sweep the objective evaluates on.
func (o Objective) Grid() (*acoustic.Grid, error) {
	return acoustic.NewGrid(o.Medium, acoustic.GridSpec{
		MinFrequency:    o.Targets.Frequency * sweepLowFactor,
		MaxFrequency:    o.Targets.Frequency * sweepHighFactor,
		ValuesPerOctave: o.ValuesPerOctave,
		Diffuse:         true,
	})
}

// Evaluate simulates v and returns
//
//	score = -peak/maxArea(f_res) + 1000·|log10(f_res/f_t)| + 500·((Q-Q_t)/Q_t)²
//
// or FailureScore when Q is undefined or v cannot be simulated.
func (o Objective) Evaluate(v Vector) Evaluation {
	g, err := o.Grid()
	if err != nil {
		return Evaluation{Score: FailureScore, Err: err}
	}
	return o.evaluateOn(g, v)
}

func (o Objective) evaluateOn(g *acoustic.Grid, v Vector) Evaluation {
	r, err := Resonator(v)
	if err != nil {
		return Evaluation{Score: FailureScore, Err: err}
	}
	an, err := acoustic.Analyze(r, g)
	if err != nil {
		return Evaluation{Score: FailureScore, Err: err}
	}

	ev := Evaluation{
		Score:              FailureScore,
		ResonanceFrequency: an.ResonanceFrequency,
		PeakAbsorptionArea: an.PeakAbsorptionArea,
		MaxAbsorptionArea:  an.MaxAreaAtResonance(),
		Q:                  an.Q,
		QDefined:           an.QDefined,
	}
	if !an.QDefined {
		return ev
	}

	score := -ev.PeakAbsorptionArea/ev.MaxAbsorptionArea +
		frequencyWeight*math.Abs(math.Log10(ev.ResonanceFrequency/o.Targets.Frequency)) +
		qWeight*math.Pow((ev.Q-o.Targets.Q)/o.Targets.Q, 2)
	if mathutil.IsFinite(score) && score < FailureScore {
		ev.Score = score
	}
	return ev
}
