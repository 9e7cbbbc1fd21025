package machine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpalvm/cse/pkg/ast"
	"github.com/rpalvm/cse/pkg/value"
)

func evalNode(t *testing.T, n *ast.Node) (value.Value, string) {
	t.Helper()
	var out bytes.Buffer
	v, err := Evaluate(n, &out)
	require.NoError(t, err)
	return v, out.String()
}

// TestPrintArithmetic covers spec.md §8's Print(2+3) scenario.
func TestPrintArithmetic(t *testing.T) {
	body := ast.NewGamma(
		ast.NewIdent("Print"),
		ast.NewBinOp(ast.OpPlus, ast.NewLiteral(value.NewInt(2)), ast.NewLiteral(value.NewInt(3))),
	)
	v, out := evalNode(t, body)
	assert.Equal(t, value.Dummy, v.Kind)
	assert.Equal(t, "5", out)
}

// TestTupleMultiBinding covers a lambda applied to a tuple, binding two
// names in one activation (the multi-binding mechanism that spec.md §8's
// Sum scenario relies on).
func TestTupleMultiBinding(t *testing.T) {
	lambda := ast.NewLambda(
		[]string{"a", "b"},
		ast.NewBinOp(ast.OpPlus, ast.NewIdent("a"), ast.NewIdent("b")),
	)
	call := ast.NewGamma(lambda, ast.NewTau(
		ast.NewLiteral(value.NewInt(10)),
		ast.NewLiteral(value.NewInt(32)),
	))
	v, _ := evalNode(t, call)
	require.Equal(t, value.Int, v.Kind)
	assert.Equal(t, int64(42), v.Int)
}

// TestFactorialViaYStar covers spec.md §8's factorial-via-Y*/Eta scenario:
//
//	let fact = Y* (fn f n . n eq 0 -> 1 | n * f (n - 1)) in fact 5
func TestFactorialViaYStar(t *testing.T) {
	inner := ast.NewLambda([]string{"f"}, ast.NewLambda([]string{"n"},
		ast.NewConditional(
			ast.NewBinOp(ast.OpEq, ast.NewIdent("n"), ast.NewLiteral(value.NewInt(0))),
			ast.NewLiteral(value.NewInt(1)),
			ast.NewBinOp(ast.OpMult,
				ast.NewIdent("n"),
				ast.NewGamma(
					ast.NewIdent("f"),
					ast.NewBinOp(ast.OpMinus, ast.NewIdent("n"), ast.NewLiteral(value.NewInt(1))),
				),
			),
		),
	))
	fact := ast.NewGamma(ast.NewIdent("Y*"), inner)
	call := ast.NewGamma(fact, ast.NewLiteral(value.NewInt(5)))
	v, _ := evalNode(t, call)
	require.Equal(t, value.Int, v.Kind)
	assert.Equal(t, int64(120), v.Int)
}

// TestConcHelloWorld covers spec.md §8's Conc('hello', ' world') scenario.
func TestConcHelloWorld(t *testing.T) {
	call := ast.NewGamma(
		ast.NewGamma(ast.NewIdent("Conc"), ast.NewLiteral(value.NewStr("hello"))),
		ast.NewLiteral(value.NewStr(" world")),
	)
	v, _ := evalNode(t, call)
	require.Equal(t, value.Str, v.Kind)
	assert.Equal(t, "hello world", v.Str)
}

// TestTupleSelection covers spec.md §8's "T 2" 1-indexed tuple selection
// scenario.
func TestTupleSelection(t *testing.T) {
	tuple := ast.NewTau(
		ast.NewLiteral(value.NewInt(10)),
		ast.NewLiteral(value.NewInt(20)),
		ast.NewLiteral(value.NewInt(30)),
	)
	call := ast.NewGamma(tuple, ast.NewLiteral(value.NewInt(2)))
	v, _ := evalNode(t, call)
	require.Equal(t, value.Int, v.Kind)
	assert.Equal(t, int64(20), v.Int)
}

// TestStringEquality covers spec.md §8's 'a' eq 'a' -> 'yes' | 'no' scenario.
func TestStringEquality(t *testing.T) {
	cond := ast.NewConditional(
		ast.NewBinOp(ast.OpEq, ast.NewLiteral(value.NewStr("a")), ast.NewLiteral(value.NewStr("a"))),
		ast.NewLiteral(value.NewStr("yes")),
		ast.NewLiteral(value.NewStr("no")),
	)
	v, _ := evalNode(t, cond)
	require.Equal(t, value.Str, v.Kind)
	assert.Equal(t, "yes", v.Str)
}

// TestValueStackBalance verifies the spec.md §8 property that a well-formed
// evaluation always leaves exactly one value on the stack.
func TestValueStackBalance(t *testing.T) {
	n := ast.NewBinOp(ast.OpPlus,
		ast.NewLiteral(value.NewInt(1)),
		ast.NewBinOp(ast.OpMult, ast.NewLiteral(value.NewInt(2)), ast.NewLiteral(value.NewInt(3))),
	)
	v, err := Evaluate(n, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int)
}

// TestTupleOneIndexed verifies out-of-range and zero indices are rejected,
// confirming tuples are 1-indexed rather than 0-indexed.
func TestTupleOneIndexed(t *testing.T) {
	tuple := ast.NewTau(ast.NewLiteral(value.NewInt(1)), ast.NewLiteral(value.NewInt(2)))

	_, err := Evaluate(ast.NewGamma(tuple, ast.NewLiteral(value.NewInt(0))), nil)
	assert.Error(t, err)

	_, err = Evaluate(ast.NewGamma(tuple, ast.NewLiteral(value.NewInt(3))), nil)
	assert.Error(t, err)

	v, err := Evaluate(ast.NewGamma(tuple, ast.NewLiteral(value.NewInt(1))), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int)
}

// TestYStarIdentity verifies the fixed-point identity (Y* L) x == L (Y* L) x
// by observing both sides produce the same result for a non-recursive body.
func TestYStarIdentity(t *testing.T) {
	body := func(self string) *ast.Node {
		return ast.NewLambda([]string{self}, ast.NewLambda([]string{"n"},
			ast.NewBinOp(ast.OpPlus, ast.NewIdent("n"), ast.NewLiteral(value.NewInt(1))),
		))
	}

	direct := ast.NewGamma(ast.NewGamma(ast.NewIdent("Y*"), body("f")), ast.NewLiteral(value.NewInt(9)))
	v1, err := Evaluate(direct, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v1.Int)

	unrolled := ast.NewGamma(
		ast.NewGamma(body("f"), ast.NewGamma(ast.NewIdent("Y*"), body("f"))),
		ast.NewLiteral(value.NewInt(9)),
	)
	v2, err := Evaluate(unrolled, nil)
	require.NoError(t, err)
	assert.Equal(t, v1.Int, v2.Int)
}

// TestLogicalOperatorsAreStrict verifies or/and are evaluated strictly: both
// operands must already be truth values, never short-circuited around a
// type error (spec.md §8).
func TestLogicalOperatorsAreStrict(t *testing.T) {
	n := ast.NewBinOp(ast.OpOr,
		ast.NewLiteral(value.NewTruth(true)),
		ast.NewBinOp(ast.OpEq, ast.NewLiteral(value.NewInt(1)), ast.NewLiteral(value.NewInt(1))),
	)
	v, err := Evaluate(n, nil)
	require.NoError(t, err)
	assert.True(t, v.Truth)

	bad := ast.NewBinOp(ast.OpOr, ast.NewLiteral(value.NewTruth(true)), ast.NewLiteral(value.NewInt(1)))
	_, err = Evaluate(bad, nil)
	assert.Error(t, err)
}

func TestDivisionByZero(t *testing.T) {
	n := ast.NewBinOp(ast.OpDiv, ast.NewLiteral(value.NewInt(1)), ast.NewLiteral(value.NewInt(0)))
	_, err := Evaluate(n, nil)
	require.Error(t, err)
	evalErr, ok := err.(*EvalError)
	require.True(t, ok)
	assert.Equal(t, ArithmeticError, evalErr.Kind)
}

func TestUndeclaredIdentifier(t *testing.T) {
	_, err := Evaluate(ast.NewIdent("nope"), nil)
	require.Error(t, err)
	evalErr, ok := err.(*EvalError)
	require.True(t, ok)
	assert.Equal(t, UndeclaredIdentifier, evalErr.Kind)
}

func TestAugAppendsOneElement(t *testing.T) {
	tuple := ast.NewTau(ast.NewLiteral(value.NewInt(1)), ast.NewLiteral(value.NewInt(2)))
	n := ast.NewAug(tuple, ast.NewLiteral(value.NewInt(3)))
	v, err := Evaluate(n, nil)
	require.NoError(t, err)
	require.Equal(t, value.Tuple, v.Kind)
	require.Len(t, v.Elems, 3)
	assert.Equal(t, int64(3), v.Elems[2].Int)
}

// TestEmptyParameterLambda covers RPAL's "()" empty-parameter marker
// (spec.md §4.1 step 1): applying such a lambda requires the empty tuple
// and binds no names.
func TestEmptyParameterLambda(t *testing.T) {
	lambda := ast.NewLambda(nil, ast.NewBinOp(ast.OpPlus, ast.NewLiteral(value.NewInt(1)), ast.NewLiteral(value.NewInt(1))))
	call := ast.NewGamma(lambda, ast.NewLiteral(value.NewTuple()))
	v, err := Evaluate(call, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int)
}

func TestUnaryNegAndNot(t *testing.T) {
	neg, err := Evaluate(ast.NewUnOp(ast.OpNeg, ast.NewLiteral(value.NewInt(4))), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), neg.Int)

	not, err := Evaluate(ast.NewUnOp(ast.OpNot, ast.NewLiteral(value.NewTruth(false))), nil)
	require.NoError(t, err)
	assert.True(t, not.Truth)
}
