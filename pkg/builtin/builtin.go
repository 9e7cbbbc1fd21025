// Package builtin implements RPAL's reserved built-in functions (spec.md
// §4.5) and the reserved-identifier set consulted by the evaluator's Name
// rule (spec.md §4.4 Rule 1) when a name is absent from the environment
// chain.
package builtin

import (
	"fmt"
	"strconv"

	"github.com/rpalvm/cse/pkg/value"
)

// Ctx is the slice of machine state a builtin needs: for the curried Conc
// built-in only, the ability to pop a second operand after consuming the
// extra Gamma marker the delta compiler leaves for it, and for Print/print,
// a destination for output. Results are returned by Apply, not pushed.
// It is defined here (rather than imported from package machine) so that
// package machine can depend on package builtin without a cycle; package
// machine's builtinCtx implements Ctx.
type Ctx interface {
	// PopValue pops and returns the top of the value stack.
	PopValue() (value.Value, error)
	// ExpectGamma pops the next control item and reports an error if it is
	// not a Gamma marker. Used only by Conc/conc's curried dispatch.
	ExpectGamma() error
	// Print writes s to the machine's configured output.
	Print(s string)
}

// Reserved is the set of reserved identifiers listed in spec.md §6.
// Case is significant; Conc/conc and Print/print are synonyms.
var Reserved = map[string]bool{
	"Isinteger":    true,
	"Isstring":     true,
	"Istuple":      true,
	"Isdummy":      true,
	"Istruthvalue": true,
	"Isfunction":   true,
	"ItoS":         true,
	"Order":        true,
	"Conc":         true,
	"conc":         true,
	"Stern":        true,
	"Stem":         true,
	"Null":         true,
	"Print":        true,
	"print":        true,
	"neg":          true,
	"Y*":           true,
}

// IsReserved reports whether name is a reserved built-in identifier.
func IsReserved(name string) bool { return Reserved[name] }

// Apply invokes the built-in named by name with operand rand, using ctx for
// any additional stack interaction (only Conc/conc need it). Apply must
// never be called with name == "Y*"; Y* is handled directly by the
// evaluator's gamma rule (spec.md §4.4 Rule 3), since it operates on
// Lambda/Eta values rather than producing an ordinary result.
func Apply(ctx Ctx, name string, rand value.Value) (value.Value, error) {
	switch name {
	case "Isinteger":
		return value.NewTruth(rand.Kind == value.Int), nil
	case "Isstring":
		return value.NewTruth(rand.Kind == value.Str), nil
	case "Istuple":
		return value.NewTruth(rand.Kind == value.Tuple), nil
	case "Isdummy":
		return value.NewTruth(rand.Kind == value.Dummy), nil
	case "Isfunction":
		return value.NewTruth(rand.IsFunction()), nil
	case "Istruthvalue":
		return value.NewTruth(rand.Kind == value.Truth), nil
	case "Stem":
		return stem(rand)
	case "Stern":
		return stern(rand)
	case "Conc", "conc":
		return conc(ctx, rand)
	case "ItoS":
		return itos(rand)
	case "Order":
		return order(rand)
	case "Null":
		return null(rand)
	case "Print", "print":
		ctx.Print(value.Expand(rand.String()))
		return value.NewDummy(), nil
	default:
		return value.Value{}, fmt.Errorf("builtin: unknown reserved identifier %q", name)
	}
}

func stem(rand value.Value) (value.Value, error) {
	if rand.Kind != value.Str {
		return value.Value{}, fmt.Errorf("Stem: expected a string, got %s", rand.Kind)
	}
	if rand.Str == "" {
		return value.NewStr(""), nil
	}
	return value.NewStr(rand.Str[:1]), nil
}

func stern(rand value.Value) (value.Value, error) {
	if rand.Kind != value.Str {
		return value.Value{}, fmt.Errorf("Stern: expected a string, got %s", rand.Kind)
	}
	if len(rand.Str) <= 1 {
		return value.NewStr(""), nil
	}
	return value.NewStr(rand.Str[1:]), nil
}

func conc(ctx Ctx, rand1 value.Value) (value.Value, error) {
	if rand1.Kind != value.Str {
		return value.Value{}, fmt.Errorf("Conc: expected a string, got %s", rand1.Kind)
	}
	if err := ctx.ExpectGamma(); err != nil {
		return value.Value{}, fmt.Errorf("Conc: %w", err)
	}
	rand2, err := ctx.PopValue()
	if err != nil {
		return value.Value{}, fmt.Errorf("Conc: %w", err)
	}
	if rand2.Kind != value.Str {
		return value.Value{}, fmt.Errorf("Conc: expected a string, got %s", rand2.Kind)
	}
	return value.NewStr(rand1.Str + rand2.Str), nil
}

func itos(rand value.Value) (value.Value, error) {
	if rand.Kind != value.Int {
		return value.Value{}, fmt.Errorf("ItoS: expected an integer, got %s", rand.Kind)
	}
	return value.NewStr(strconv.FormatInt(rand.Int, 10)), nil
}

func order(rand value.Value) (value.Value, error) {
	if rand.Kind != value.Tuple {
		return value.Value{}, fmt.Errorf("Order: expected a tuple, got %s", rand.Kind)
	}
	return value.NewInt(int64(len(rand.Elems))), nil
}

func null(rand value.Value) (value.Value, error) {
	if rand.Kind != value.Tuple {
		return value.Value{}, fmt.Errorf("Null: expected a tuple, got %s", rand.Kind)
	}
	return value.NewTruth(len(rand.Elems) == 0), nil
}
