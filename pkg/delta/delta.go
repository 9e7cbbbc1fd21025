// Package delta implements the delta compiler: it walks a standardized AST
// (package ast) and flattens it into control sequences (package control)
// that the CSE machine's evaluator can drive directly (spec.md §4.1).
//
// The compiler assigns every lambda body a fresh index and records every
// compiled body in a Program's Bodies map under that index, in addition to
// embedding it directly in the emitted LambdaForm item. The machine looks a
// closure's body up in Bodies by this index when applying it, and
// value.Value.String prints the index in a closure's printed form.
package delta

import (
	"fmt"

	"github.com/rpalvm/cse/pkg/ast"
	"github.com/rpalvm/cse/pkg/control"
)

// Program is the result of compiling a standardized AST: the root control
// sequence plus every lambda body encountered during compilation, keyed by
// the index the compiler assigned it.
type Program struct {
	Root   []control.Item
	Bodies map[int][]control.Item
}

// Compile walks root and returns the compiled Program. Compile returns an
// error if root contains a malformed node (e.g. a lambda with no body
// child, or a tau with fewer than two elements) — reaching either is a
// standardizer bug and is treated as an invariant violation (spec.md §7).
func Compile(root *ast.Node) (*Program, error) {
	c := &compiler{bodies: make(map[int][]control.Item)}
	seq, err := c.compile(root)
	if err != nil {
		return nil, err
	}
	return &Program{Root: seq, Bodies: c.bodies}, nil
}

type compiler struct {
	nextIndex int
	bodies    map[int][]control.Item
}

func (c *compiler) compile(n *ast.Node) ([]control.Item, error) {
	var out []control.Item
	if err := c.emit(n, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// emit appends the control items realizing n onto *out, in place.
func (c *compiler) emit(n *ast.Node, out *[]control.Item) error {
	if n == nil {
		return fmt.Errorf("delta: nil AST node")
	}
	switch n.Kind {
	case ast.Ident:
		*out = append(*out, control.NewName(n.Ident))
		return nil

	case ast.Literal:
		*out = append(*out, control.NewLiteral(n.Literal))
		return nil

	case ast.LambdaNode:
		if len(n.Children) != 1 {
			return fmt.Errorf("delta: lambda node must have exactly one body child")
		}
		idx := c.nextIndex
		c.nextIndex++
		body, err := c.compile(n.Children[0])
		if err != nil {
			return err
		}
		c.bodies[idx] = body
		*out = append(*out, control.NewLambdaForm(n.BoundVars, idx, body))
		return nil

	case ast.GammaNode:
		if len(n.Children) != 2 {
			return fmt.Errorf("delta: gamma node must have rator and rand children")
		}
		rator, rand := n.Children[0], n.Children[1]
		// Operand code first, then operator code, so the operator's
		// value ends up on top of the value stack (popped first by Rule
		// 3) with the operand immediately below it (spec.md §4.1).
		if err := c.emit(rand, out); err != nil {
			return err
		}
		if err := c.emit(rator, out); err != nil {
			return err
		}
		*out = append(*out, control.NewGamma())
		return nil

	case ast.Conditional:
		if len(n.Children) != 3 {
			return fmt.Errorf("delta: conditional node must have cond/then/else children")
		}
		cond, then, els := n.Children[0], n.Children[1], n.Children[2]
		if err := c.emit(cond, out); err != nil {
			return err
		}
		thenSeq, err := c.compile(then)
		if err != nil {
			return err
		}
		elseSeq, err := c.compile(els)
		if err != nil {
			return err
		}
		*out = append(*out, control.NewBeta(thenSeq, elseSeq))
		return nil

	case ast.TauNode:
		if len(n.Children) < 2 {
			return fmt.Errorf("delta: tau node must have at least two elements")
		}
		for _, child := range n.Children {
			if err := c.emit(child, out); err != nil {
				return err
			}
		}
		*out = append(*out, control.NewTupleFormer(len(n.Children)))
		return nil

	case ast.AugNode:
		if len(n.Children) != 2 {
			return fmt.Errorf("delta: aug node must have tuple and elem children")
		}
		tuple, elem := n.Children[0], n.Children[1]
		// Right operand (the appended element) first, then the left
		// operand (the tuple), so the tuple ends up popped first by
		// Rule 9 (spec.md §4.4).
		if err := c.emit(elem, out); err != nil {
			return err
		}
		if err := c.emit(tuple, out); err != nil {
			return err
		}
		*out = append(*out, control.NewOperator(ast.OpAug))
		return nil

	case ast.BinOp:
		if len(n.Children) != 2 {
			return fmt.Errorf("delta: binary operator node must have two operands")
		}
		left, right := n.Children[0], n.Children[1]
		// Right operand first, then left, so the left operand is popped
		// first by the binary reduction rules (spec.md §4.4 Rules 6-9).
		if err := c.emit(right, out); err != nil {
			return err
		}
		if err := c.emit(left, out); err != nil {
			return err
		}
		*out = append(*out, control.NewOperator(n.Op))
		return nil

	case ast.UnOp:
		if len(n.Children) != 1 {
			return fmt.Errorf("delta: unary operator node must have exactly one operand")
		}
		if err := c.emit(n.Children[0], out); err != nil {
			return err
		}
		*out = append(*out, control.NewOperator(n.Op))
		return nil

	default:
		return fmt.Errorf("delta: malformed AST: unrecognized node kind %d", n.Kind)
	}
}
