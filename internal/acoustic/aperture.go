package acoustic

import (
	"fmt"
	"math"
	"strings"
)

// Form selects the aperture cross-section.
type Form int

const (
	FormTube Form = iota + 1
	FormSlit
)

func (f Form) String() string {
	switch f {
	case FormTube:
		return "tube"
	case FormSlit:
		return "slit"
	default:
		return "unknown"
	}
}

// ParseForm converts a record string into a Form.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tube":
		return FormTube, nil
	case "slit":
		return FormSlit, nil
	default:
		return 0, unsupported("aperture.form", s, "tube, slit")
	}
}

// Ending is the boundary condition at one termination of the aperture.
// The zero value means "not specified" and selects the per-side default.
type Ending int

const (
	EndingOpen Ending = iota + 1
	EndingFlange
)

func (e Ending) String() string {
	switch e {
	case EndingOpen:
		return "open"
	case EndingFlange:
		return "flange"
	default:
		return "unknown"
	}
}

// ParseEnding converts a record string into an Ending. An empty string
// returns the zero Ending so defaults apply.
func ParseEnding(field, s string) (Ending, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "open":
		return EndingOpen, nil
	case "flange":
		return EndingFlange, nil
	default:
		return 0, unsupported(field, s, "open, flange")
	}
}

// ApertureSpec is the record form of an aperture. Zero numeric fields mean
// absent.
type ApertureSpec struct {
	Form   Form
	Length float64
	Amount int

	Radius float64 // tube
	Width  float64 // slit
	Height float64 // slit

	InnerEnding Ending // default open
	OuterEnding Ending // default flange

	Damping bool
	Xi      float64 // length-specific flow resistance, required iff Damping
}

// Aperture is a validated opening between the cavity and the outside.
type Aperture struct {
	spec ApertureSpec

	radius             float64 // physical or equivalent radius
	area               float64
	innerEndCorrection float64
	outerEndCorrection float64
}

// NewAperture validates spec and derives area, equivalent radius and end
// corrections.
func NewAperture(spec ApertureSpec) (Aperture, error) {
	if spec.Amount == 0 {
		spec.Amount = defaultAmount
	}
	if spec.Amount < minAmount || spec.Amount > maxAmount {
		return Aperture{}, invalid("aperture.amount", fmt.Sprintf("must be within [%d, %d]", minAmount, maxAmount), spec.Amount)
	}
	if spec.InnerEnding == 0 {
		spec.InnerEnding = EndingOpen
	}
	if spec.OuterEnding == 0 {
		spec.OuterEnding = EndingFlange
	}
	if err := checkEnding("aperture.inner_ending", spec.InnerEnding); err != nil {
		return Aperture{}, err
	}
	if err := checkEnding("aperture.outer_ending", spec.OuterEnding); err != nil {
		return Aperture{}, err
	}

	if spec.Length == 0 {
		return Aperture{}, missing("aperture.length", "is required")
	}
	if err := requirePositive("aperture.length", spec.Length); err != nil {
		return Aperture{}, err
	}

	if spec.Damping {
		if spec.Xi == 0 {
			return Aperture{}, missing("aperture.xi", "is required when damping is enabled")
		}
		if err := requirePositive("aperture.xi", spec.Xi); err != nil {
			return Aperture{}, err
		}
	} else if spec.Xi != 0 {
		return Aperture{}, invalid("aperture.xi", "must not be set when damping is disabled", spec.Xi)
	}

	a := Aperture{spec: spec}
	amount := float64(spec.Amount)

	switch spec.Form {
	case FormTube:
		if err := rejectExtra("aperture", "tube", map[string]float64{"width": spec.Width, "height": spec.Height}); err != nil {
			return Aperture{}, err
		}
		if err := requireDims("aperture", map[string]float64{"radius": spec.Radius}); err != nil {
			return Aperture{}, err
		}
		a.radius = spec.Radius
		a.area = amount * math.Pi * spec.Radius * spec.Radius
		a.innerEndCorrection = TubeEndCorrection(spec.Radius, spec.InnerEnding)
		a.outerEndCorrection = TubeEndCorrection(spec.Radius, spec.OuterEnding)

	case FormSlit:
		if err := rejectExtra("aperture", "slit", map[string]float64{"radius": spec.Radius}); err != nil {
			return Aperture{}, err
		}
		if err := requireDims("aperture", map[string]float64{"width": spec.Width, "height": spec.Height}); err != nil {
			return Aperture{}, err
		}
		a.area = amount * spec.Width * spec.Height
		a.radius = math.Sqrt(a.area / math.Pi)
		dl := SlitEndCorrection(spec.Width, spec.Height)
		a.innerEndCorrection = dl
		a.outerEndCorrection = dl

	default:
		return Aperture{}, unsupported("aperture.form", spec.Form.String(), "tube, slit")
	}

	return a, nil
}

func checkEnding(field string, e Ending) error {
	if e != EndingOpen && e != EndingFlange {
		return unsupported(field, e.String(), "open, flange")
	}
	return nil
}

// TubeEndCorrection returns 0.6·r for an open ending and 0.85·r for a flanged one.
func TubeEndCorrection(radius float64, e Ending) float64 {
	if e == EndingFlange {
		return tubeFlangeEndFactor * radius
	}
	return tubeOpenEndFactor * radius
}

// SlitEndCorrection returns the end correction of a rectangular slit after
// Mechel, Formulas of Acoustics, with a the smaller and b the larger half side.
func SlitEndCorrection(width, height float64) float64 {
	a := math.Min(width, height) / halfDivisor
	b := math.Max(width, height) / halfDivisor
	beta := a / b
	root := math.Sqrt(1 + beta*beta)

	volumeTerm := 2 / (3 * math.Pi) * (beta + (1-math.Pow(1+beta*beta, 1.5))/(beta*beta))
	logTerm := 2 / math.Pi * (math.Log(beta+root)/beta + math.Log((1+root)/beta))
	return a * (volumeTerm + logTerm)
}

func (a Aperture) Form() Form                  { return a.spec.Form }
func (a Aperture) Length() float64             { return a.spec.Length }
func (a Aperture) Amount() int                 { return a.spec.Amount }
func (a Aperture) InnerEnding() Ending         { return a.spec.InnerEnding }
func (a Aperture) OuterEnding() Ending         { return a.spec.OuterEnding }
func (a Aperture) Damping() bool               { return a.spec.Damping }
func (a Aperture) Xi() float64                 { return a.spec.Xi }
func (a Aperture) Area() float64               { return a.area }
func (a Aperture) InnerEndCorrection() float64 { return a.innerEndCorrection }
func (a Aperture) OuterEndCorrection() float64 { return a.outerEndCorrection }

// Radius returns the tube radius, or the equivalent radius √(S/π) of a slit.
func (a Aperture) Radius() float64 { return a.radius }

// EffectiveLength is the length plus both end corrections.
func (a Aperture) EffectiveLength() float64 {
	return a.spec.Length + a.innerEndCorrection + a.outerEndCorrection
}

// Spec returns the record form of a with defaults filled in.
func (a Aperture) Spec() ApertureSpec { return a.spec }
