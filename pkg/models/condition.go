package models

// Operator enumerates the supported condition operators.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorIsNull      Operator = "is_null"
	OperatorIsNotNull   Operator = "is_not_null"
	OperatorIn          Operator = "in"
	OperatorNotIn       Operator = "not_in"
)

// Condition is a single field/operator/value predicate evaluated against the
// combined entity snapshot and event payload. Field is a dot-path into that
// data ("customer.email"). Value is the comparison operand; in/not_in expect
// a list.
type Condition struct {
	Field    string   `json:"field"    validate:"required"`
	Operator Operator `json:"operator" validate:"required"`
	Value    any      `json:"value,omitempty"`
}
