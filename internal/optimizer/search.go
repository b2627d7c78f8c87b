package optimizer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/optimize"
)

// task is one independent local search.
type task struct {
	index   int
	start   Vector
	bounds  Bounds
	targets Targets

	valuesPerOctave int
	maxEvaluations  int
	timeout         time.Duration
}

// Result is the outcome of one local search.
type Result struct {
	Start       int           `json:"start"`
	Initial     Vector        `json:"initial"`
	Vector      Vector        `json:"vector"`
	Evaluation  Evaluation    `json:"evaluation"`
	Score       float64       `json:"score"`
	Converged   bool          `json:"converged"`
	Status      string        `json:"status"`
	Evaluations int           `json:"evaluations"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// contextRecorder aborts a local search once ctx is done.
type contextRecorder struct {
	ctx context.Context
}

func (r contextRecorder) Init() error { return r.ctx.Err() }

func (r contextRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}

// converged lists the gonum statuses that count as a successful search.
func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success,
		optimize.FunctionConvergence,
		optimize.FunctionThreshold,
		optimize.StepConvergence,
		optimize.MethodConverge,
		optimize.GradientThreshold:
		return true
	default:
		return false
	}
}

// localSearch minimises the objective from t.start with Nelder-Mead in
// logistic coordinates, so every evaluated point honours t.bounds. Panics
// inside the objective are recovered and reported as a failed start.
func localSearch(ctx context.Context, t task) (res Result) {
	begin := time.Now()
	res = Result{Start: t.index, Initial: t.start, Score: FailureScore}

	defer func() {
		if p := recover(); p != nil {
			res.Converged = false
			res.Score = FailureScore
			res.Err = fmt.Errorf("%w: start %d panicked: %v", ErrStartFailed, t.index, p)
		}
		res.Duration = time.Since(begin)
	}()

	if err := t.bounds.Validate(); err != nil {
		res.Err = fmt.Errorf("%w: start %d: %w", ErrStartFailed, t.index, err)
		return res
	}

	obj := NewObjective(t.targets, t.valuesPerOctave)
	grid, err := obj.Grid()
	if err != nil {
		res.Err = fmt.Errorf("%w: start %d: %w", ErrStartFailed, t.index, err)
		return res
	}

	// gonum evaluates Func on its own goroutines, so panics are caught here
	// and turned into a failed start once the search returns.
	var (
		panicMu  sync.Mutex
		panicVal any
	)
	problem := optimize.Problem{
		Func: func(u []float64) (score float64) {
			defer func() {
				if p := recover(); p != nil {
					panicMu.Lock()
					if panicVal == nil {
						panicVal = p
					}
					panicMu.Unlock()
					score = FailureScore
				}
			}()
			return obj.evaluateOn(grid, t.bounds.fromUnbounded(u)).Score
		},
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   convergeAbsolute,
			Relative:   convergeRelative,
			Iterations: convergeIterations,
		},
		FuncEvaluations: t.maxEvaluations,
		Runtime:         t.timeout,
		Recorder:        contextRecorder{ctx: ctx},
	}

	out, err := optimize.Minimize(problem, t.bounds.toUnbounded(t.start), settings, &optimize.NelderMead{SimplexSize: simplexSize})

	panicMu.Lock()
	p := panicVal
	panicMu.Unlock()
	if p != nil {
		panic(p)
	}

	if out != nil {
		res.Status = out.Status.String()
		res.Evaluations = out.FuncEvaluations
		res.Vector = t.bounds.fromUnbounded(out.X)
		res.Evaluation = obj.evaluateOn(grid, res.Vector)
		res.Score = res.Evaluation.Score
	}
	if err != nil {
		res.Err = fmt.Errorf("%w: start %d: %w", ErrStartFailed, t.index, err)
		return res
	}

	res.Converged = converged(out.Status) && res.Score < FailureScore
	if !res.Converged {
		res.Err = fmt.Errorf("%w: start %d ended with status %s", ErrStartFailed, t.index, out.Status)
	}
	return res
}
