package interpreter

import (
	"math"
	"strconv"
)

type ValueType uint

const (
	ValueNilType ValueType = iota
	ValueBoolType
	ValueFloatType
	ValueStringType
	ValueCallableType
)

// Value is a runtime value.
type Value interface {
	Type() ValueType
	// String renders the value the way 'print' shows it.
	String() string
}

type (
	ValueNil      struct{}
	ValueBool     bool
	ValueFloat    float64
	ValueString   string
	ValueCallable struct {
		Callable
	}
)

var (
	NilValue       = ValueNil{}
	NilStringValue = ValueString("nil")
)

// Type implements Value.
func (v ValueNil) Type() ValueType {
	return ValueNilType
}

// Type implements Value.
func (v ValueBool) Type() ValueType {
	return ValueBoolType
}

// Type implements Value.
func (v ValueFloat) Type() ValueType {
	return ValueFloatType
}

// Type implements Value.
func (v ValueString) Type() ValueType {
	return ValueStringType
}

// Type implements Value.
func (v ValueCallable) Type() ValueType {
	return ValueCallableType
}

// String implements Value.
func (v ValueNil) String() string {
	return string(NilStringValue)
}

// String implements Value.
func (v ValueBool) String() string {
	return strconv.FormatBool(bool(v))
}

// String implements Value.
// Integral numbers print without a fractional part: 3.0 prints as "3".
func (v ValueFloat) String() string {
	f := float64(v)
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String implements Value.
func (v ValueString) String() string {
	return string(v)
}

// String implements Value.
func (v ValueCallable) String() string {
	return v.Callable.String()
}

func valueFromLiteral(literal any) Value {
	switch v := literal.(type) {
	case nil:
		return NilValue
	case bool:
		return ValueBool(v)
	case float64:
		return ValueFloat(v)
	case string:
		return ValueString(v)
	}

	panic("unexpected literal")
}

func isTruthy(value Value) bool {
	switch v := value.(type) {
	case ValueNil:
		return false
	case ValueBool:
		return bool(v)
	}

	return true
}

// isEqual never fails: values of different types are simply unequal.
func isEqual(left, right Value) bool {
	switch l := left.(type) {
	case ValueNil:
		_, ok := right.(ValueNil)
		return ok
	case ValueBool:
		r, ok := right.(ValueBool)
		return ok && l == r
	case ValueFloat:
		r, ok := right.(ValueFloat)
		return ok && l == r
	case ValueString:
		r, ok := right.(ValueString)
		return ok && l == r
	case ValueCallable:
		// all callables are pointers, so this is identity
		r, ok := right.(ValueCallable)
		return ok && l.Callable == r.Callable
	}

	return false
}

var (
	_ Value = ValueNil{}
	_ Value = ValueCallable{Callable: nil}
	_ Value = ValueBool(false)
	_ Value = ValueFloat(0)
	_ Value = ValueString("")
)
