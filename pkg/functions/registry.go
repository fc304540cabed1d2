package functions

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/mcclellann/fredBank/pkg/ledger"
)

// Function is one named operation over the ledger.
type Function struct {
	Name        string
	Description string
	Parameters  Parameters
	// Mutates is set for operations that change the dataset.
	Mutates bool
	Apply   func(l *ledger.Ledger, args json.RawMessage) (any, error)
}

// Parameters is the JSON-schema-like description of a function's arguments.
type Parameters struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// Metadata is the published description of a function.
type Metadata struct {
	Type     string     `json:"type"`
	Function Descriptor `json:"function"`
}

type Descriptor struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

// H is a JSON object payload.
type H map[string]any

// Result is the outcome of a call: a payload or an error.
type Result struct {
	Payload any
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// String renders the result the way callers receive it: the payload as JSON,
// or "Error: " followed by the message.
func (r Result) String() string {
	if r.Err != nil {
		return "Error: " + r.Err.Error()
	}
	b, err := json.Marshal(r.Payload)
	if err != nil {
		return "Error: " + err.Error()
	}
	return string(b)
}

// Registry maps function names to their implementations over one ledger.
type Registry struct {
	ledger *ledger.Ledger
	funcs  map[string]Function
	log    *slog.Logger
}

// NewRegistry returns a registry with every built-in function registered.
func NewRegistry(l *ledger.Ledger, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		ledger: l,
		funcs:  make(map[string]Function),
		log:    logger,
	}
	for _, fn := range builtins() {
		r.Register(fn)
	}
	return r
}

// Register adds fn, replacing any function with the same name.
func (r *Registry) Register(fn Function) {
	r.funcs[fn.Name] = fn
}

func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}

// Metadata describes every registered function, sorted by name.
func (r *Registry) Metadata() []Metadata {
	out := make([]Metadata, 0, len(r.funcs))
	for _, name := range r.Names() {
		fn := r.funcs[name]
		out = append(out, Metadata{
			Type: "function",
			Function: Descriptor{
				Name:        fn.Name,
				Description: fn.Description,
				Parameters:  fn.Parameters,
			},
		})
	}
	return out
}

// Call runs the named function with JSON-encoded arguments. It never panics:
// a panic inside a function is returned as an error result.
func (r *Registry) Call(name string, args json.RawMessage) (res Result) {
	fn, ok := r.funcs[name]
	if !ok {
		return Result{Err: &ledger.Error{Kind: ledger.ErrNotFound, Msg: fmt.Sprintf("Unknown function '%s'", name)}}
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("function panicked", "function", name, "panic", p)
			res = Result{Err: fmt.Errorf("internal error in %s: %v", name, p)}
		}
	}()

	payload, err := fn.Apply(r.ledger, args)
	if err != nil {
		if errors.Is(err, ledger.ErrData) {
			r.log.Warn("function failed on stored data", "function", name, "error", err)
		} else {
			r.log.Debug("function rejected", "function", name, "error", err)
		}
		return Result{Err: err}
	}
	r.log.Debug("function called", "function", name)
	return Result{Payload: payload}
}
