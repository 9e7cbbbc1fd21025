// Package value defines the tagged runtime values produced and consumed by
// the CSE machine: integers, strings, truth values, dummy, tuples, and the
// three flavors of callable (lambda closure, eta closure, builtin).
package value

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variant held by a Value.
type Kind uint8

// Possible Kind values.
const (
	Invalid Kind = iota
	Int
	Str
	Truth
	Dummy
	Tuple
	Lambda
	Eta
	Builtin
)

var kindStrings = [...]string{
	Invalid: "invalid",
	Int:     "integer",
	Str:     "string",
	Truth:   "truth value",
	Dummy:   "dummy",
	Tuple:   "tuple",
	Lambda:  "function",
	Eta:     "function",
	Builtin: "function",
}

func (k Kind) String() string {
	if int(k) >= len(kindStrings) || kindStrings[k] == "" {
		return kindStrings[Invalid]
	}
	return kindStrings[k]
}

// Closure is the shared representation of a lambda closure: the bound
// variable list in declaration order, the index the delta compiler assigned
// its body (the machine finds the body to run by it, and String prints it),
// and a reference to the
// environment captured at the moment the LambdaForm control item was
// reduced. Env is never mutated after capture, so sharing it across copies
// of the Closure is safe.
type Closure struct {
	BoundVars []string
	BodyIndex int
	Env       Environment
}

// Environment is the subset of environ.Env's surface the value package
// needs. It is expressed as an interface here to avoid an import cycle
// between value and environ (environ.Env holds Values in its bindings).
type Environment interface {
	// Marker method; environ.Env satisfies this trivially. Kept so that
	// only *environ.Env (or an equivalent) can be captured by a closure.
	IsEnvironment() bool
}

// Value is a tagged sum of every runtime value the CSE machine can push
// onto the value stack. Values are immutable after construction; Copy
// produces a structurally independent value (see Copy).
type Value struct {
	Kind Kind

	// Int holds the payload for Kind == Int.
	Int int64

	// Str holds the payload for Kind == Str.
	Str string

	// Truth holds the payload for Kind == Truth.
	Truth bool

	// Elems holds the payload for Kind == Tuple, in order.
	Elems []Value

	// Closure holds the payload for Kind == Lambda or Kind == Eta. For
	// Eta, Closure describes the wrapped lambda itself (Eta wraps exactly
	// one Lambda, per the invariant in spec.md §3).
	Closure *Closure

	// Builtin holds the reserved identifier name for Kind == Builtin.
	Builtin string
}

// NewInt returns an integer value.
func NewInt(i int64) Value { return Value{Kind: Int, Int: i} }

// NewStr returns a string value. Escape sequences are not expanded at
// construction time; they are expanded only when a value is printed.
func NewStr(s string) Value { return Value{Kind: Str, Str: s} }

// NewTruth returns a truth value.
func NewTruth(b bool) Value { return Value{Kind: Truth, Truth: b} }

// NewDummy returns the dummy value.
func NewDummy() Value { return Value{Kind: Dummy} }

// NewTuple returns a tuple value with the given elements, in order. Calling
// NewTuple with no elements returns the empty tuple, nil.
func NewTuple(elems ...Value) Value {
	if len(elems) == 0 {
		return Value{Kind: Tuple}
	}
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{Kind: Tuple, Elems: cp}
}

// NewLambda returns a lambda closure. bound may be empty, representing
// RPAL's "()" empty-parameter marker (spec.md §4.1 step 1).
func NewLambda(bound []string, bodyIndex int, env Environment) Value {
	vars := make([]string, len(bound))
	copy(vars, bound)
	return Value{
		Kind: Lambda,
		Closure: &Closure{
			BoundVars: vars,
			BodyIndex: bodyIndex,
			Env:       env,
		},
	}
}

// NewEta wraps a lambda Value in an eta (recursion) closure. NewEta panics
// if l is not a Lambda; Y* only ever accepts a Lambda (spec.md §3).
func NewEta(l Value) Value {
	if l.Kind != Lambda {
		panic("value: NewEta requires a Lambda value")
	}
	return Value{Kind: Eta, Closure: l.Closure}
}

// NewBuiltin returns an unapplied reserved identifier.
func NewBuiltin(name string) Value { return Value{Kind: Builtin, Builtin: name} }

// IsCallable reports whether v is something Rule 3 (gamma application) is
// prepared to apply: a Lambda, an Eta, a Tuple (selection), or a Builtin.
func (v Value) IsCallable() bool {
	switch v.Kind {
	case Lambda, Eta, Builtin, Tuple:
		return true
	default:
		return false
	}
}

// IsFunction reports whether v is a function value for the purposes of the
// Isfunction builtin: a lambda closure, an eta closure, or a builtin.
func (v Value) IsFunction() bool {
	switch v.Kind {
	case Lambda, Eta, Builtin:
		return true
	default:
		return false
	}
}

// Copy performs the structural deep copy required by environment lookup
// (spec.md §4.2): integers/strings/truth/dummy copy by value, tuples copy
// their elements recursively, and lambda/eta closures copy their bound-var
// list and body index but share the captured environment by reference,
// since the environment is immutable once sealed.
func (v Value) Copy() Value {
	switch v.Kind {
	case Tuple:
		if len(v.Elems) == 0 {
			return v
		}
		elems := make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = e.Copy()
		}
		return Value{Kind: Tuple, Elems: elems}
	case Lambda, Eta:
		bound := make([]string, len(v.Closure.BoundVars))
		copy(bound, v.Closure.BoundVars)
		return Value{
			Kind: v.Kind,
			Closure: &Closure{
				BoundVars: bound,
				BodyIndex: v.Closure.BodyIndex,
				Env:       v.Closure.Env,
			},
		}
	default:
		// Int, Str, Truth, Dummy, Builtin are already value types with no
		// shared mutable state.
		return v
	}
}

// String renders v in RPAL's canonical printed form (spec.md §4.5):
// integers as decimal, strings verbatim (escapes are expanded only by the
// Print builtin, not here), tuples as "(e1, e2, ...)" or "nil" when empty,
// truth values as "true"/"false", dummy as "dummy", and closures with their
// first bound variable and body index.
func (v Value) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Str:
		return v.Str
	case Truth:
		if v.Truth {
			return "true"
		}
		return "false"
	case Dummy:
		return "dummy"
	case Tuple:
		if len(v.Elems) == 0 {
			return "nil"
		}
		var buf bytes.Buffer
		buf.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(e.String())
		}
		buf.WriteByte(')')
		return buf.String()
	case Lambda:
		return fmt.Sprintf("[lambda closure: %s: %d]", firstVar(v.Closure), v.Closure.BodyIndex)
	case Eta:
		return fmt.Sprintf("[eta closure: %s: %d]", firstVar(v.Closure), v.Closure.BodyIndex)
	case Builtin:
		return v.Builtin
	default:
		return "<invalid>"
	}
}

func firstVar(c *Closure) string {
	if len(c.BoundVars) == 0 {
		return ""
	}
	return c.BoundVars[0]
}

// Expand replaces the escape sequences \n and \t with their literal
// character in s. Only these two sequences are recognized, matching the
// original implementation this machine was distilled from.
func Expand(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				buf.WriteByte('\n')
				i++
				continue
			case 't':
				buf.WriteByte('\t')
				i++
				continue
			}
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}
