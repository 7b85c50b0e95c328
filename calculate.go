package formstate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RuleContext carries the inputs of one calculation.
type RuleContext struct {
	Snapshot *Serialized
	Key      string
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

// environment exposes storage to expressions: values maps each key to its
// "value" field, records maps each key to the whole record.
func (ctx RuleContext) environment() map[string]any {
	values := map[string]any{}
	records := map[string]any{}
	ctx.Snapshot.Range(func(key string, rec Record) bool {
		records[key] = map[string]any(rec)
		if value, ok := rec[FieldValue]; ok {
			values[key] = value
		}
		return true
	})
	return map[string]any{
		"now":      *ctx.Now,
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
		"key":      ctx.Key,
		"values":   values,
		"records":  records,
	}
}

// Evaluator runs calculation expressions.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable compiled expression.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled programs keyed by expression text.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Calculation derives the Target field of the entry under Key from Expr.
// Field is the field identifier used when publishing the result.
type Calculation struct {
	Key    string
	Field  string
	Expr   string
	Target string
}

type compiledCalculation struct {
	Calculation
	rule CompiledRule
}

// Calculator runs field calculations against a store, in the order they were
// added, the way document scripts recompute dependent fields after an edit.
type Calculator struct {
	evaluator Evaluator
	engine    string
	rules     []compiledCalculation
	args      map[string]any
	logger    StoreLogger
	now       func() time.Time
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithEvaluator selects the expression engine. The default is expr with the
// calculate operators of NewCalculateRegistry.
func WithEvaluator(evaluator Evaluator) CalculatorOption {
	return func(c *Calculator) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithCalculationArgs exposes args to every expression as `args`.
func WithCalculationArgs(args map[string]any) CalculatorOption {
	return func(c *Calculator) {
		c.args = copyArgs(args)
	}
}

// WithCalculatorLogger logs every calculation as a "calculate" store event.
func WithCalculatorLogger(logger StoreLogger) CalculatorOption {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// NewCalculator builds a Calculator.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.evaluator == nil {
		c.evaluator = NewExprEvaluator(ExprWithFunctionRegistry(NewCalculateRegistry()))
	}
	if c.logger == nil {
		c.logger = noopStoreLogger{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.engine = evaluatorEngineName(c.evaluator)
	return c
}

// Add compiles calc and appends it to the run order.
func (c *Calculator) Add(calc Calculation) error {
	calc.Key = strings.TrimSpace(calc.Key)
	if calc.Key == "" {
		return wrapStoreError("calculate", "", ErrEmptyKey)
	}
	if strings.TrimSpace(calc.Expr) == "" {
		return wrapEvaluationError(c.engine, "", calc.Key, ErrEmptyExpression)
	}
	if calc.Target == "" {
		calc.Target = FieldValue
	}
	rule, err := c.evaluator.Compile(calc.Expr)
	if err != nil {
		return wrapEvaluationError(c.engine, calc.Expr, calc.Key, err)
	}
	c.rules = append(c.rules, compiledCalculation{Calculation: calc, rule: rule})
	return nil
}

// Len returns the number of registered calculations.
func (c *Calculator) Len() int {
	return len(c.rules)
}

// Run evaluates every calculation and writes its result into store. Each
// calculation sees the results of the ones before it. A failing calculation
// is skipped; all failures are returned joined.
func (c *Calculator) Run(store *Store) error {
	if store == nil {
		return fmt.Errorf("formstate: calculate: store is nil")
	}
	var errs []error
	for _, calc := range c.rules {
		start := c.now()
		ctx := RuleContext{
			Snapshot: store.Serializable(),
			Key:      calc.Key,
			Args:     c.args,
		}.withDefaults()
		result, err := calc.rule.Evaluate(ctx)
		if err != nil {
			err = wrapEvaluationError(c.engine, calc.Expr, calc.Key, err)
			errs = append(errs, err)
			c.logger.LogStoreEvent(StoreLogEvent{Op: "calculate", Key: calc.Key, Field: calc.Field, Err: err, Duration: c.now().Sub(start)})
			continue
		}
		if err := store.SetValue(calc.Key, calc.Field, Record{calc.Target: result}); err != nil {
			errs = append(errs, err)
		}
		c.logger.LogStoreEvent(StoreLogEvent{Op: "calculate", Key: calc.Key, Field: calc.Field, Duration: c.now().Sub(start)})
	}
	return errors.Join(errs...)
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	case nil:
		return "unknown"
	}
	if isJSEvaluator(e) {
		return "js"
	}
	return "custom"
}

func copyArgs(args map[string]any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, len(args))
	for key, value := range args {
		out[key] = value
	}
	return out
}
