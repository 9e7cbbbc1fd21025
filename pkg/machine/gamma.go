package machine

import (
	"github.com/rpalvm/cse/pkg/builtin"
	"github.com/rpalvm/cse/pkg/control"
	"github.com/rpalvm/cse/pkg/environ"
	"github.com/rpalvm/cse/pkg/value"
)

// ruleGamma implements spec.md §4.4 Rule 3: function application. rator is
// popped first (it is the value pushed most recently, i.e. on top), then
// rand.
func (m *Machine) ruleGamma(cs *controlStack, env *environ.Env) error {
	rator, ok := m.vs.pop()
	if !ok {
		return m.errorf(ApplicationError, cs, "gamma: value stack is empty (missing operator)")
	}
	rand, ok := m.vs.pop()
	if !ok {
		return m.errorf(ApplicationError, cs, "gamma: value stack is empty (missing operand)")
	}

	switch rator.Kind {
	case value.Lambda:
		return m.applyLambda(rator, rand, cs)
	case value.Builtin:
		if rator.Builtin == "Y*" {
			return m.applyYStar(rand, cs)
		}
		return m.applyBuiltin(rator, rand, cs)
	case value.Eta:
		return m.applyEta(rator, rand, cs)
	case value.Tuple:
		return m.applyTupleSelection(rator, rand, cs)
	default:
		return m.errorf(ApplicationError, cs, "cannot apply a %s as a function", rator.Kind)
	}
}

// applyLambda binds rand to rator's bound variables in a fresh environment
// and recursively evaluates the lambda's body there, sharing the value
// stack with the caller (spec.md §4.4 Rule 3 "Lambda" case, §5).
func (m *Machine) applyLambda(rator, rand value.Value, cs *controlStack) error {
	body, ok := m.bodies[rator.Closure.BodyIndex]
	if !ok {
		return m.errorf(MalformedAST, cs, "no compiled body registered for lambda index %d", rator.Closure.BodyIndex)
	}
	parentEnv, ok := rator.Closure.Env.(*environ.Env)
	if !ok {
		return m.errorf(MalformedAST, cs, "closure environment is not a *environ.Env")
	}
	next := environ.New(parentEnv)
	bound := rator.Closure.BoundVars
	if len(bound) == 1 {
		if err := next.Bind(bound[0], rand); err != nil {
			return m.errorf(MalformedAST, cs, "%v", err)
		}
	} else {
		if rand.Kind != value.Tuple {
			return m.errorf(ArityError, cs, "lambda expects a %d-tuple argument, got a %s", len(bound), rand.Kind)
		}
		if len(rand.Elems) != len(bound) {
			return m.errorf(ArityError, cs, "lambda expects a %d-tuple argument, got a %d-tuple", len(bound), len(rand.Elems))
		}
		for i, name := range bound {
			if err := next.Bind(name, rand.Elems[i]); err != nil {
				return m.errorf(MalformedAST, cs, "%v", err)
			}
		}
	}
	next.Seal()
	return m.run(body, next)
}

// applyYStar implements spec.md §4.4 Rule 3 "Y*" case: wrapping a lambda
// in a recursion closure. Y* only ever accepts a Lambda.
func (m *Machine) applyYStar(rand value.Value, cs *controlStack) error {
	if rand.Kind != value.Lambda {
		return m.errorf(ArityError, cs, "Y* expects a lambda, got a %s", rand.Kind)
	}
	m.vs.push(value.NewEta(rand))
	return nil
}

// applyEta implements spec.md §4.4 Rule 3 "Eta" case: unrolling one level
// of recursion. The value stack, bottom to top, becomes: rand, Eta, the
// inner Lambda; two Gamma markers are pushed onto the control stack so
// that the next two reductions apply the lambda to the eta (rebinding its
// "self" reference) and then the result to rand.
func (m *Machine) applyEta(rator, rand value.Value, cs *controlStack) error {
	inner := value.Value{Kind: value.Lambda, Closure: rator.Closure}
	m.vs.push(rand)
	m.vs.push(rator)
	m.vs.push(inner)
	cs.push(control.NewGamma())
	cs.push(control.NewGamma())
	return nil
}

// applyTupleSelection implements spec.md §4.4 Rule 3 "Tuple" case:
// 1-based tuple indexing.
func (m *Machine) applyTupleSelection(rator, rand value.Value, cs *controlStack) error {
	if rand.Kind != value.Int {
		return m.errorf(TypeError, cs, "tuple selection requires an integer index, got a %s", rand.Kind)
	}
	k := rand.Int
	if k < 1 || int(k) > len(rator.Elems) {
		return m.errorf(ArityError, cs, "tuple selection index %d out of bounds for tuple of arity %d", k, len(rator.Elems))
	}
	m.vs.push(rator.Elems[k-1])
	return nil
}

// applyBuiltin implements spec.md §4.4 Rule 3 "Builtin" case, dispatching
// to package builtin (spec.md §4.5).
func (m *Machine) applyBuiltin(rator, rand value.Value, cs *controlStack) error {
	ctx := &builtinCtx{m: m, cs: cs}
	result, err := builtin.Apply(ctx, rator.Builtin, rand)
	if err != nil {
		return m.errorf(TypeError, cs, "%v", err)
	}
	m.vs.push(result)
	return nil
}
