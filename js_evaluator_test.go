//go:build js_eval

package formstate

import "testing"

func TestJSEvaluatorCalculation(t *testing.T) {
	s := invoiceStore(t)
	registry := NewFunctionRegistry()
	_ = registry.Register("label", func(args ...any) (any, error) {
		return "key:" + args[0].(string), nil
	})
	cache := &mapCache{}
	calc := NewCalculator(WithEvaluator(NewJSEvaluator(
		JSWithFunctionRegistry(registry),
		JSWithProgramCache(cache),
	)))
	if err := calc.Add(Calculation{Key: "subtotal", Expr: `values["qty"] * values["price"]`}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := calc.Add(Calculation{Key: "tag", Expr: `label(key)`}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := calc.Run(s); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := s.GetValue("subtotal", "", nil); got["value"] != int64(12) {
		t.Fatalf("expected 12, got %#v", got["value"])
	}
	if got := s.GetValue("tag", "", nil); got["value"] != "key:tag" {
		t.Fatalf("unexpected tag: %#v", got["value"])
	}
	if cache.sets != 2 {
		t.Fatalf("expected two cached programs, got %d", cache.sets)
	}
}
