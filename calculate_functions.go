package formstate

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// calculateOperators are the simple calculate actions a document can attach
// to a field. Each accepts field values, lists of values, or a values map
// followed by the keys to read from it:
//
//	SUM(values["qty"], values["price"])
//	AVG(values, "q1", "q2", "q3")
var calculateOperators = []namedFunction{
	{name: "SUM", fn: reduceFields(func(nums []float64) float64 {
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total
	})},
	{name: "PRD", fn: reduceFields(func(nums []float64) float64 {
		if len(nums) == 0 {
			return 0
		}
		product := 1.0
		for _, n := range nums {
			product *= n
		}
		return product
	})},
	{name: "AVG", fn: reduceFields(func(nums []float64) float64 {
		if len(nums) == 0 {
			return 0
		}
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total / float64(len(nums))
	})},
	{name: "MIN", fn: reduceFields(func(nums []float64) float64 {
		if len(nums) == 0 {
			return 0
		}
		least := nums[0]
		for _, n := range nums[1:] {
			least = math.Min(least, n)
		}
		return least
	})},
	{name: "MAX", fn: reduceFields(func(nums []float64) float64 {
		if len(nums) == 0 {
			return 0
		}
		most := nums[0]
		for _, n := range nums[1:] {
			most = math.Max(most, n)
		}
		return most
	})},
}

func reduceFields(reduce func([]float64) float64) Function {
	return func(args ...any) (any, error) {
		nums, err := fieldNumbers(args)
		if err != nil {
			return nil, err
		}
		return reduce(nums), nil
	}
}

// fieldNumbers collects the numeric operands of a calculate operator.
func fieldNumbers(args []any) ([]float64, error) {
	if len(args) > 0 {
		if values, ok := args[0].(map[string]any); ok {
			return keyedNumbers(values, args[1:])
		}
	}
	var nums []float64
	for _, arg := range args {
		if list, ok := asList(arg); ok {
			inner, err := fieldNumbers(list)
			if err != nil {
				return nil, err
			}
			nums = append(nums, inner...)
			continue
		}
		n, err := fieldNumber(arg)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func keyedNumbers(values map[string]any, keys []any) ([]float64, error) {
	var names []string
	for _, key := range keys {
		if list, ok := asList(key); ok {
			for _, item := range list {
				names = append(names, fmt.Sprint(item))
			}
			continue
		}
		names = append(names, fmt.Sprint(key))
	}
	nums := make([]float64, 0, len(names))
	for _, name := range names {
		n, err := fieldNumber(values[name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// fieldNumber converts a field value. Blank fields count as zero; hosts
// report typed numbers as text, with either a dot or a comma decimal mark.
func fieldNumber(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("formstate: %q is not a number", v)
		}
		return n, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, fmt.Errorf("formstate: %T is not a number", value)
}

func asList(value any) ([]any, bool) {
	if list, ok := value.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
