// Package machine implements the CSE (Control-Stack-Environment) machine:
// the evaluator that drives call-by-value reduction of a standardized RPAL
// AST over the value stack, control stack, and environment chain described
// in spec.md §3-§5.
package machine

import (
	"fmt"
	"io"

	"github.com/rpalvm/cse/pkg/ast"
	"github.com/rpalvm/cse/pkg/builtin"
	"github.com/rpalvm/cse/pkg/control"
	"github.com/rpalvm/cse/pkg/delta"
	"github.com/rpalvm/cse/pkg/environ"
	"github.com/rpalvm/cse/pkg/value"
)

// Machine holds the state shared across every recursive activation of a
// lambda body during one evaluation: the value stack (spec.md §5, "the
// only stateful sharing between nested activations"), the compiled lambda
// bodies keyed by delta index, and the destination for Print output.
type Machine struct {
	vs     valueStack
	bodies map[int][]control.Item
	out    io.Writer
}

// Evaluate compiles root with the delta compiler and runs it to completion
// on a fresh Machine, returning the single Value left on the value stack
// (spec.md §8, "value-stack balance") or a fatal *EvalError (spec.md §7).
// Output written by the Print/print builtin goes to out.
func Evaluate(root *ast.Node, out io.Writer) (value.Value, error) {
	prog, err := delta.Compile(root)
	if err != nil {
		return value.Value{}, &EvalError{Kind: MalformedAST, Message: err.Error()}
	}
	m := &Machine{bodies: prog.Bodies, out: out}
	primordial := environ.New(nil)
	primordial.Seal()

	if err := m.run(prog.Root, primordial); err != nil {
		return value.Value{}, err
	}
	if m.vs.len() != 1 {
		return value.Value{}, &EvalError{
			Kind:       MalformedAST,
			Message:    fmt.Sprintf("evaluation left %d values on the stack, expected exactly 1", m.vs.len()),
			ValueDepth: m.vs.len(),
		}
	}
	v, _ := m.vs.pop()
	return v, nil
}

// run loads seq onto a fresh control stack and drives reduction until it is
// empty, using env as the current environment (spec.md §4.3). run is
// called recursively by applyLambda to enter a lambda body; every
// recursive call shares m's value stack but gets its own control stack and
// environment, matching spec.md §5.
func (m *Machine) run(seq []control.Item, env *environ.Env) error {
	cs := newControlStack(seq)
	for {
		item, ok := cs.pop()
		if !ok {
			return nil
		}
		if err := m.step(item, cs, env); err != nil {
			return err
		}
	}
}

func (m *Machine) step(item control.Item, cs *controlStack, env *environ.Env) error {
	switch item.Kind {
	case control.Name:
		return m.ruleName(item, cs, env)
	case control.Literal:
		m.vs.push(item.Literal)
		return nil
	case control.LambdaForm:
		m.vs.push(value.NewLambda(item.BoundVars, item.BodyIndex, env))
		return nil
	case control.Gamma:
		return m.ruleGamma(cs, env)
	case control.Beta:
		return m.ruleBeta(item, cs)
	case control.TupleFormer:
		return m.ruleTupleFormer(item, cs)
	case control.Operator:
		return m.ruleOperator(item, cs)
	default:
		return m.errorf(MalformedAST, cs, "unrecognized control item kind %d", item.Kind)
	}
}

// ruleName implements spec.md §4.4 Rule 1.
func (m *Machine) ruleName(item control.Item, cs *controlStack, env *environ.Env) error {
	if v, ok := env.Lookup(item.Name); ok {
		m.vs.push(v)
		return nil
	}
	if builtin.IsReserved(item.Name) {
		m.vs.push(value.NewBuiltin(item.Name))
		return nil
	}
	return m.errorf(UndeclaredIdentifier, cs, "undeclared identifier %q", item.Name)
}

// ruleBeta implements spec.md §4.4 Rule 4.
func (m *Machine) ruleBeta(item control.Item, cs *controlStack) error {
	cond, ok := m.vs.pop()
	if !ok {
		return m.errorf(TypeError, cs, "beta: value stack is empty")
	}
	if cond.Kind != value.Truth {
		return m.errorf(TypeError, cs, "beta: expected a truth value, got %s", cond.Kind)
	}
	if cond.Truth {
		cs.pushSeq(item.Then)
	} else {
		cs.pushSeq(item.Else)
	}
	return nil
}

// ruleTupleFormer implements spec.md §4.4 Rule 5.
func (m *Machine) ruleTupleFormer(item control.Item, cs *controlStack) error {
	n := item.Arity
	popped := make([]value.Value, n)
	for i := 0; i < n; i++ {
		v, ok := m.vs.pop()
		if !ok {
			return m.errorf(TypeError, cs, "tau: value stack underflow constructing tuple of arity %d", n)
		}
		popped[i] = v
	}
	elems := make([]value.Value, n)
	for i, v := range popped {
		// popped[0] is the most recently pushed (shallowest) value; the
		// tuple's first element is the deepest, i.e. the one pushed
		// (and hence popped) last (spec.md §4.4 Rule 5).
		elems[n-1-i] = v
	}
	m.vs.push(value.NewTuple(elems...))
	return nil
}

// builtinCtx adapts one call to a Gamma/env activation into the narrow
// interface package builtin needs (see builtin.Ctx), so Conc/conc can
// consume the extra Gamma marker the delta compiler leaves for its curried
// second argument (spec.md §4.5).
type builtinCtx struct {
	m  *Machine
	cs *controlStack
}

func (b *builtinCtx) PopValue() (value.Value, error) {
	v, ok := b.m.vs.pop()
	if !ok {
		return value.Value{}, fmt.Errorf("value stack is empty")
	}
	return v, nil
}

func (b *builtinCtx) ExpectGamma() error {
	item, ok := b.cs.pop()
	if !ok || item.Kind != control.Gamma {
		return fmt.Errorf("expected a curried gamma application")
	}
	return nil
}

func (b *builtinCtx) Print(s string) {
	if b.m.out != nil {
		io.WriteString(b.m.out, s)
	}
}
