//go:build js_eval

package formstate

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEvaluator constructs an Evaluator backed by goja. Expressions are the
// body of a document calculate action, e.g. `values["1R"] * 2`.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := newJSSettings(opts)
	return &jsEvaluator{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluationError("js", "", "", ErrEmptyExpression)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &jsCompiledRule{evaluator: e, expression: expression, program: program}, nil
}

func (e *jsEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapJSExpression(expression), false)
	if err != nil {
		return nil, wrapEvaluationError("js", expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

// run executes program in a fresh runtime so scripts cannot leak state
// between calculations.
func (e *jsEvaluator) run(ctx RuleContext, program *goja.Program) (any, error) {
	vm := goja.New()
	for name, value := range ctx.environment() {
		if err := vm.Set(name, value); err != nil {
			return nil, err
		}
	}
	if e.registry != nil {
		call := func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		if err := vm.Set("call", call); err != nil {
			return nil, err
		}
		for _, name := range e.registry.Names() {
			fn := name
			if err := vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}); err != nil {
				return nil, err
			}
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func wrapJSExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

type jsCompiledRule struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (r *jsCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	result, err := r.evaluator.run(ctx, r.program)
	if err != nil {
		return nil, wrapEvaluationError("js", r.expression, ctx.Key, err)
	}
	return result, nil
}

func isJSEvaluator(e Evaluator) bool {
	_, ok := e.(*jsEvaluator)
	return ok
}
