package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpalvm/cse/pkg/ast"
	"github.com/rpalvm/cse/pkg/control"
	"github.com/rpalvm/cse/pkg/value"
)

func TestCompileLiteral(t *testing.T) {
	p, err := Compile(ast.NewLiteral(value.NewInt(5)))
	require.NoError(t, err)
	require.Len(t, p.Root, 1)
	assert.Equal(t, control.Literal, p.Root[0].Kind)
	assert.Equal(t, int64(5), p.Root[0].Literal.Int)
}

func TestCompileBinOpOrder(t *testing.T) {
	// 2 + 3: right operand emitted first, then left, then the operator,
	// so that Rule 6 pops the left operand first.
	n := ast.NewBinOp(ast.OpPlus, ast.NewLiteral(value.NewInt(2)), ast.NewLiteral(value.NewInt(3)))
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 3)
	assert.Equal(t, int64(3), p.Root[0].Literal.Int)
	assert.Equal(t, int64(2), p.Root[1].Literal.Int)
	assert.Equal(t, control.Operator, p.Root[2].Kind)
	assert.Equal(t, ast.OpPlus, p.Root[2].Op)
}

func TestCompileGammaOrder(t *testing.T) {
	n := ast.NewGamma(ast.NewIdent("f"), ast.NewIdent("x"))
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 3)
	assert.Equal(t, "x", p.Root[0].Name)
	assert.Equal(t, "f", p.Root[1].Name)
	assert.Equal(t, control.Gamma, p.Root[2].Kind)
}

func TestCompileLambdaAssignsIndexAndBody(t *testing.T) {
	n := ast.NewLambda([]string{"x"}, ast.NewIdent("x"))
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 1)
	require.Equal(t, control.LambdaForm, p.Root[0].Kind)
	assert.Equal(t, []string{"x"}, p.Root[0].BoundVars)
	assert.Equal(t, 0, p.Root[0].BodyIndex)
	require.Len(t, p.Root[0].Body, 1)
	assert.Equal(t, "x", p.Root[0].Body[0].Name)
	assert.Contains(t, p.Bodies, 0)
}

func TestCompileNestedLambdaIndicesAreDistinct(t *testing.T) {
	inner := ast.NewLambda([]string{"y"}, ast.NewIdent("y"))
	outer := ast.NewLambda([]string{"x"}, ast.NewGamma(inner, ast.NewIdent("x")))
	p, err := Compile(outer)
	require.NoError(t, err)
	require.Len(t, p.Bodies, 2)
	assert.NotEqual(t, p.Bodies[0], nil)
	assert.NotEqual(t, p.Bodies[1], nil)
}

func TestCompileConditional(t *testing.T) {
	n := ast.NewConditional(ast.NewIdent("c"), ast.NewLiteral(value.NewInt(1)), ast.NewLiteral(value.NewInt(2)))
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 2)
	assert.Equal(t, "c", p.Root[0].Name)
	require.Equal(t, control.Beta, p.Root[1].Kind)
	assert.Equal(t, int64(1), p.Root[1].Then[0].Literal.Int)
	assert.Equal(t, int64(2), p.Root[1].Else[0].Literal.Int)
}

func TestCompileTauRequiresArityTwo(t *testing.T) {
	_, err := Compile(ast.NewTau(ast.NewLiteral(value.NewInt(1))))
	assert.Error(t, err)
}

func TestCompileTauOrder(t *testing.T) {
	n := ast.NewTau(
		ast.NewLiteral(value.NewInt(1)),
		ast.NewLiteral(value.NewInt(2)),
		ast.NewLiteral(value.NewInt(3)),
	)
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 4)
	assert.Equal(t, int64(1), p.Root[0].Literal.Int)
	assert.Equal(t, int64(2), p.Root[1].Literal.Int)
	assert.Equal(t, int64(3), p.Root[2].Literal.Int)
	assert.Equal(t, control.TupleFormer, p.Root[3].Kind)
	assert.Equal(t, 3, p.Root[3].Arity)
}

func TestCompileAugOrder(t *testing.T) {
	n := ast.NewAug(ast.NewIdent("t"), ast.NewLiteral(value.NewInt(4)))
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 3)
	assert.Equal(t, int64(4), p.Root[0].Literal.Int)
	assert.Equal(t, "t", p.Root[1].Name)
	assert.Equal(t, control.Operator, p.Root[2].Kind)
	assert.Equal(t, ast.OpAug, p.Root[2].Op)
}

func TestCompileUnOp(t *testing.T) {
	n := ast.NewUnOp(ast.OpNeg, ast.NewLiteral(value.NewInt(4)))
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 2)
	assert.Equal(t, int64(4), p.Root[0].Literal.Int)
	assert.Equal(t, ast.OpNeg, p.Root[1].Op)
}

func TestCompileMalformedLambdaRejected(t *testing.T) {
	_, err := Compile(&ast.Node{Kind: ast.LambdaNode, BoundVars: []string{"x"}})
	assert.Error(t, err)
}

// TestCompileEmptyParameterLambda covers RPAL's "()" empty-parameter marker
// (spec.md §4.1 step 1): a lambda with zero bound variables compiles like
// any other, and is applied to the empty tuple at evaluation time.
func TestCompileEmptyParameterLambda(t *testing.T) {
	n := ast.NewLambda(nil, ast.NewLiteral(value.NewInt(1)))
	p, err := Compile(n)
	require.NoError(t, err)
	require.Len(t, p.Root, 1)
	require.Equal(t, control.LambdaForm, p.Root[0].Kind)
	assert.Empty(t, p.Root[0].BoundVars)
}
