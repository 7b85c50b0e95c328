package formstate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrFunctionExists is returned when a name is registered twice,
	// ignoring case.
	ErrFunctionExists = errors.New("formstate: function already registered")
	// ErrUnknownFunction is returned when an expression calls a name nobody
	// registered.
	ErrUnknownFunction = errors.New("formstate: function not registered")
)

// Function is a helper callable from calculation expressions.
type Function func(args ...any) (any, error)

type namedFunction struct {
	name string
	fn   Function
}

// FunctionRegistry holds the helpers exposed to calculation expressions.
// Lookups ignore case; expressions call a function by the name it was
// registered with.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]namedFunction
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]namedFunction{}}
}

// NewCalculateRegistry returns a registry preloaded with the document
// calculate operators SUM, PRD, AVG, MIN and MAX.
func NewCalculateRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	for _, op := range calculateOperators {
		r.functions[strings.ToLower(op.name)] = namedFunction{name: op.name, fn: op.fn}
	}
	return r
}

// Register adds fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("formstate: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("formstate: function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]namedFunction{}
	}
	key := strings.ToLower(name)
	if existing, ok := r.functions[key]; ok {
		return fmt.Errorf("%w: %q (as %q)", ErrFunctionExists, name, existing.name)
	}
	r.functions[key] = namedFunction{name: name, fn: fn}
	return nil
}

// Clone copies the registry so an evaluator is unaffected by later
// registrations.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &FunctionRegistry{functions: make(map[string]namedFunction, len(r.functions))}
	for key, entry := range r.functions {
		out.functions[key] = entry
	}
	return out
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	r.mu.RLock()
	entry, ok := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return entry.fn(args...)
}

// Names returns the registered names, as registered, in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for _, entry := range r.functions {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}
