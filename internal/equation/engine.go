package equation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/larex/internal/dataset"
	"github.com/leengari/larex/internal/domain/errs"
	"github.com/leengari/larex/internal/equation/lexer"
	"github.com/leengari/larex/internal/equation/parser"
	"github.com/leengari/larex/internal/evaluator"
)

// Engine evaluates channel equations against a caller-supplied Dataset
type Engine struct {
	logger    *slog.Logger
	eval      *evaluator.Evaluator
	observers []Observer
}

// New creates a new Engine. A nil logger means slog.Default().
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:    logger,
		eval:      evaluator.New(),
		observers: make([]Observer, 0),
	}
}

// Compute evaluates equation with a default Engine
func Compute(equation string, ds *dataset.Dataset) (string, *dataset.Dataset, error) {
	return New(nil).Compute(equation, ds)
}

// Compute parses "{out} = expression", expands aggregates, checks every
// channel reference against ds, evaluates the expression element-wise
// and stores the result in ds under the output name.
func (e *Engine) Compute(equation string, ds *dataset.Dataset) (string, *dataset.Dataset, error) {
	if ds == nil {
		return "", nil, fmt.Errorf("no dataset given")
	}
	runID := uuid.New().String()

	// 1. Parse
	e.notify(Event{Type: EventParseStart, RunID: runID, Data: equation})
	eq, err := parser.ParseEquation(equation)
	if err != nil {
		return "", ds, err
	}
	e.notify(Event{Type: EventParseEnd, RunID: runID, Data: eq.String()})

	// 2. Expand aggregates, then resolve the remaining references
	e.notify(Event{Type: EventExpandStart, RunID: runID})
	expanded, err := ExpandAggregates(eq.Expr, ds)
	if err != nil {
		return "", ds, err
	}
	if err := ResolveChannels(expanded, ds); err != nil {
		return "", ds, err
	}
	b := newBinder()
	rendered := render(expanded, b)
	e.notify(Event{Type: EventExpandEnd, RunID: runID, Data: expanded.String()})

	// 3. Evaluate
	e.notify(Event{Type: EventEvalStart, RunID: runID, Data: rendered})
	bindings := make(map[string][]float64, len(b.names))
	for _, name := range b.names {
		col, _ := ds.Get(name)
		bindings[b.ids[name]] = col
	}
	result, err := e.eval.Evaluate(rendered, bindings)
	if err != nil {
		return "", ds, fmt.Errorf("evaluation error: %w", err)
	}
	if result.Scalar {
		return "", ds, errs.NewScalarResult()
	}
	e.notify(Event{Type: EventEvalEnd, RunID: runID, Data: len(result.Values)})

	// 4. Assign back to the dataset
	out := eq.Output.Name
	ds.Set(out, result.Values)
	e.logger.Info("channel computed",
		slog.String("output", out),
		slog.Int("values", len(result.Values)),
	)

	return out, ds, nil
}

// Check reports channels referenced on the right-hand side of equation
// that are missing from ds. It never fails: malformed input yields
// whatever references can still be found, and each missing channel is
// logged as a warning.
func (e *Engine) Check(equation string, ds *dataset.Dataset) []string {
	var missing []string
	for _, name := range InputChannels(equation) {
		if ds == nil || !ds.Has(name) {
			e.logger.Warn("channel does not exist in dataset", slog.String("channel", name))
			missing = append(missing, name)
		}
	}
	return missing
}

// Check runs Engine.Check with a default Engine
func Check(equation string, ds *dataset.Dataset) []string {
	return New(nil).Check(equation, ds)
}

// InputChannels returns the sanitized names of all {name} references
// between the first and second "=" of equation, in order, without
// de-duplication.
func InputChannels(equation string) []string {
	l := lexer.New(equation)
	afterEquals := false
	var names []string
	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			return names
		}
		if tok.Type == lexer.EQUALS {
			if afterEquals {
				return names
			}
			afterEquals = true
			continue
		}
		if afterEquals && tok.Type == lexer.CHANNEL {
			if name := dataset.SanitizeName(tok.Literal); name != "" {
				names = append(names, name)
			}
		}
	}
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
