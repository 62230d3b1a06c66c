// Package conditions evaluates workflow condition predicates against the
// combined entity snapshot and event payload.
package conditions

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/inkflow/inkflow/pkg/models"
)

// Evaluate returns the logical AND of all condition predicates over data.
// An empty or nil condition list matches vacuously.
func Evaluate(conds []models.Condition, data map[string]any) bool {
	for _, cond := range conds {
		if !EvaluateOne(cond, data) {
			return false
		}
	}

	return true
}

// EvaluateOne evaluates a single predicate. Unknown operators evaluate to
// false, never to true.
func EvaluateOne(cond models.Condition, data map[string]any) bool {
	value := FieldValue(data, cond.Field)

	switch cond.Operator {
	case models.OperatorEquals:
		return valuesEqual(value, cond.Value)
	case models.OperatorNotEquals:
		return !valuesEqual(value, cond.Value)
	case models.OperatorGreaterThan:
		cmp, ok := compareValues(value, cond.Value)

		return ok && cmp > 0
	case models.OperatorLessThan:
		cmp, ok := compareValues(value, cond.Value)

		return ok && cmp < 0
	case models.OperatorContains:
		return containsFold(value, cond.Value)
	case models.OperatorNotContains:
		return !containsFold(value, cond.Value)
	case models.OperatorIsNull:
		return value == nil
	case models.OperatorIsNotNull:
		return value != nil
	case models.OperatorIn:
		return inList(value, cond.Value)
	case models.OperatorNotIn:
		list, ok := asList(cond.Value)
		if !ok {
			return false
		}

		return !memberOf(value, list)
	default:
		return false
	}
}

// FieldValue walks a dot-path ("customer.email") through nested maps. Any
// missing intermediate key yields nil.
func FieldValue(data map[string]any, path string) any {
	if path == "" {
		return nil
	}

	var current any = data

	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		current, ok = node[key]
		if !ok {
			return nil
		}
	}

	return current
}

// valuesEqual compares for strict equality, normalizing numeric types so that
// an int loaded from a struct and a float64 decoded from JSON compare equal.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}

		return false
	}

	return reflect.DeepEqual(a, b)
}

// compareValues orders two values numerically when both are numbers and
// lexically otherwise. The second return is false when no ordering applies.
func compareValues(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	fa, aok := asFloat(a)
	fb, bok := asFloat(b)

	if aok && bok {
		switch {
		case fa > fb:
			return 1, true
		case fa < fb:
			return -1, true
		default:
			return 0, true
		}
	}

	sa, saok := a.(string)
	sb, sbok := b.(string)

	if saok && sbok {
		return strings.Compare(sa, sb), true
	}

	return 0, false
}

// containsFold performs a case-insensitive substring test on the string
// representations of both operands.
func containsFold(value, substr any) bool {
	if value == nil || substr == nil {
		return false
	}

	haystack := strings.ToLower(stringify(value))
	needle := strings.ToLower(stringify(substr))

	return strings.Contains(haystack, needle)
}

func inList(value, expected any) bool {
	list, ok := asList(expected)
	if !ok {
		return false
	}

	return memberOf(value, list)
}

func memberOf(value any, list []any) bool {
	for _, item := range list {
		if valuesEqual(value, item) {
			return true
		}
	}

	return false
}

func asList(value any) ([]any, bool) {
	switch list := value.(type) {
	case []any:
		return list, true
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}

		return out, true
	default:
		return nil, false
	}
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch s := value.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
