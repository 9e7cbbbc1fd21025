package machine

import (
	"github.com/rpalvm/cse/pkg/ast"
	"github.com/rpalvm/cse/pkg/control"
	"github.com/rpalvm/cse/pkg/value"
)

// ruleOperator dispatches an Operator control item to the appropriate
// binary or unary reduction rule (spec.md §4.4 Rules 6-10).
func (m *Machine) ruleOperator(item control.Item, cs *controlStack) error {
	switch item.Op {
	case ast.OpPlus, ast.OpMinus, ast.OpMult, ast.OpDiv, ast.OpExp,
		ast.OpLs, ast.OpLe, ast.OpGr, ast.OpGe:
		return m.ruleArithmetic(item.Op, cs)
	case ast.OpEq, ast.OpNe:
		return m.ruleEquality(item.Op, cs)
	case ast.OpOr, ast.OpAnd:
		return m.ruleLogical(item.Op, cs)
	case ast.OpAug:
		return m.ruleAug(cs)
	case ast.OpNot, ast.OpNeg:
		return m.ruleUnary(item.Op, cs)
	default:
		return m.errorf(MalformedAST, cs, "unrecognized operator %q", item.Op)
	}
}

func (m *Machine) popTwo(cs *controlStack) (a, b value.Value, err error) {
	a, ok := m.vs.pop()
	if !ok {
		return value.Value{}, value.Value{}, m.errorf(TypeError, cs, "operator: value stack underflow")
	}
	b, ok = m.vs.pop()
	if !ok {
		return value.Value{}, value.Value{}, m.errorf(TypeError, cs, "operator: value stack underflow")
	}
	return a, b, nil
}

// ruleArithmetic implements spec.md §4.4 Rule 6. a is popped first and is
// the left operand.
func (m *Machine) ruleArithmetic(op string, cs *controlStack) error {
	a, b, err := m.popTwo(cs)
	if err != nil {
		return err
	}
	if a.Kind != value.Int || b.Kind != value.Int {
		return m.errorf(TypeError, cs, "%s: expected two integers, got %s and %s", op, a.Kind, b.Kind)
	}
	switch op {
	case ast.OpPlus:
		m.vs.push(value.NewInt(a.Int + b.Int))
	case ast.OpMinus:
		m.vs.push(value.NewInt(a.Int - b.Int))
	case ast.OpMult:
		m.vs.push(value.NewInt(a.Int * b.Int))
	case ast.OpDiv:
		if b.Int == 0 {
			return m.errorf(ArithmeticError, cs, "division by zero")
		}
		m.vs.push(value.NewInt(a.Int / b.Int))
	case ast.OpExp:
		m.vs.push(value.NewInt(intPow(a.Int, b.Int)))
	case ast.OpLs:
		m.vs.push(value.NewTruth(a.Int < b.Int))
	case ast.OpLe:
		m.vs.push(value.NewTruth(a.Int <= b.Int))
	case ast.OpGr:
		m.vs.push(value.NewTruth(a.Int > b.Int))
	case ast.OpGe:
		m.vs.push(value.NewTruth(a.Int >= b.Int))
	}
	return nil
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

// ruleEquality implements spec.md §4.4 Rule 7.
func (m *Machine) ruleEquality(op string, cs *controlStack) error {
	a, b, err := m.popTwo(cs)
	if err != nil {
		return err
	}
	var eq bool
	switch {
	case a.Kind == value.Truth && b.Kind == value.Truth:
		eq = a.Truth == b.Truth
	case a.Kind == value.Int && b.Kind == value.Int:
		eq = a.Int == b.Int
	case a.Kind == value.Str && b.Kind == value.Str:
		eq = a.Str == b.Str
	default:
		return m.errorf(TypeError, cs, "%s: cannot compare %s and %s", op, a.Kind, b.Kind)
	}
	if op == ast.OpNe {
		eq = !eq
	}
	m.vs.push(value.NewTruth(eq))
	return nil
}

// ruleLogical implements spec.md §4.4 Rule 8. Both operands are always
// evaluated before this rule runs, since they were already reduced to
// values on the value stack by the time the Operator item is reached; Or
// and And are strict, never short-circuiting.
func (m *Machine) ruleLogical(op string, cs *controlStack) error {
	a, b, err := m.popTwo(cs)
	if err != nil {
		return err
	}
	if a.Kind != value.Truth || b.Kind != value.Truth {
		return m.errorf(TypeError, cs, "%s: expected two truth values, got %s and %s", op, a.Kind, b.Kind)
	}
	var result bool
	if op == ast.OpOr {
		result = a.Truth || b.Truth
	} else {
		result = a.Truth && b.Truth
	}
	m.vs.push(value.NewTruth(result))
	return nil
}

// ruleAug implements spec.md §4.4 Rule 9. a is popped first and must be a
// tuple; the result is a new tuple with b appended as one new element.
func (m *Machine) ruleAug(cs *controlStack) error {
	a, b, err := m.popTwo(cs)
	if err != nil {
		return err
	}
	if a.Kind != value.Tuple {
		return m.errorf(TypeError, cs, "aug: expected a tuple, got %s", a.Kind)
	}
	elems := make([]value.Value, 0, len(a.Elems)+1)
	elems = append(elems, a.Elems...)
	elems = append(elems, b)
	m.vs.push(value.NewTuple(elems...))
	return nil
}

// ruleUnary implements spec.md §4.4 Rule 10.
func (m *Machine) ruleUnary(op string, cs *controlStack) error {
	rand, ok := m.vs.pop()
	if !ok {
		return m.errorf(TypeError, cs, "%s: value stack underflow", op)
	}
	switch op {
	case ast.OpNeg:
		if rand.Kind != value.Int {
			return m.errorf(TypeError, cs, "neg: expected an integer, got %s", rand.Kind)
		}
		m.vs.push(value.NewInt(-rand.Int))
	case ast.OpNot:
		if rand.Kind != value.Truth {
			return m.errorf(TypeError, cs, "not: expected a truth value, got %s", rand.Kind)
		}
		m.vs.push(value.NewTruth(!rand.Truth))
	}
	return nil
}
