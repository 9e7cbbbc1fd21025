package machine

import "fmt"

// ErrorKind classifies an evaluation failure into the taxonomy from
// spec.md §7. All kinds are fatal; the CSE machine has no recovery path.
type ErrorKind uint8

// Possible ErrorKind values.
const (
	TypeError ErrorKind = iota
	UndeclaredIdentifier
	ArityError
	ApplicationError
	ArithmeticError
	MalformedAST
)

var errorKindStrings = [...]string{
	TypeError:            "type error",
	UndeclaredIdentifier: "undeclared identifier",
	ArityError:           "arity error",
	ApplicationError:     "application error",
	ArithmeticError:      "arithmetic error",
	MalformedAST:         "malformed AST",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return "unknown error"
	}
	return errorKindStrings[k]
}

// EvalError is the error type returned by Evaluate on a fatal evaluation
// failure (spec.md §7). It travels as a normal Go error while retaining
// enough structure — an error-taxonomy tag plus the depth of both machine
// stacks at the point of failure — to diagnose a standardized AST that
// carries no source position (the lexer/parser/standardizer that would
// have attached one are out of scope; see SPEC_FULL.md §3).
type EvalError struct {
	Kind         ErrorKind
	Message      string
	ValueDepth   int
	ControlDepth int
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s (value stack depth %d, control stack depth %d)",
		e.Kind, e.Message, e.ValueDepth, e.ControlDepth)
}

func (m *Machine) errorf(kind ErrorKind, cs *controlStack, format string, args ...interface{}) *EvalError {
	depth := 0
	if cs != nil {
		depth = cs.len()
	}
	return &EvalError{
		Kind:         kind,
		Message:      fmt.Sprintf(format, args...),
		ValueDepth:   m.vs.len(),
		ControlDepth: depth,
	}
}
