package formstate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyExpression is returned when a calculation has no expression text.
var ErrEmptyExpression = errors.New("formstate: expression must not be empty")

// EvaluationError reports a calculation that failed to compile or run. Key is
// the storage key the calculation writes to.
type EvaluationError struct {
	Engine string
	Expr   string
	Key    string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("formstate: calculate")
	if e.Key != "" {
		fmt.Fprintf(&b, " key=%q", e.Key)
	}
	if e.Engine != "" {
		fmt.Fprintf(&b, " engine=%s", e.Engine)
	}
	if e.Expr != "" {
		fmt.Fprintf(&b, " expr=%q", e.Expr)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluationError attaches calculation metadata to err. An existing
// EvaluationError only has its blank fields filled in.
func wrapEvaluationError(engine, expr, key string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Expr: expr, Key: key, Err: err}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	if evalErr.Key == "" {
		evalErr.Key = key
	}
	return evalErr
}
