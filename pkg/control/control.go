// Package control defines the control items the delta compiler emits and
// the CSE machine's evaluator dispatches on (spec.md §3, §4.1). A control
// sequence is a flat, ordered, read-only list of Items; it is never
// mutated after the delta compiler produces it, and each activation of a
// lambda body copies it onto a fresh control stack (spec.md §5).
package control

import "github.com/rpalvm/cse/pkg/value"

// Kind discriminates the variant held by an Item.
type Kind uint8

// Possible Kind values.
const (
	Invalid Kind = iota
	Literal
	Name
	Gamma
	Beta
	LambdaForm
	TupleFormer
	Operator
)

// Item is one entry in a control sequence.
type Item struct {
	Kind Kind

	// Literal holds the payload for Kind == Literal.
	Literal value.Value

	// Name holds the payload for Kind == Name.
	Name string

	// Then and Else hold the payload for Kind == Beta: the pre-flattened
	// control sequences for the two branches of a conditional.
	Then []Item
	Else []Item

	// BoundVars, BodyIndex, and Body hold the payload for
	// Kind == LambdaForm.
	BoundVars []string
	BodyIndex int
	Body      []Item

	// Arity holds the payload for Kind == TupleFormer.
	Arity int

	// Op holds the payload for Kind == Operator; one of the operator name
	// constants in package ast (ast.OpPlus, ast.OpNeg, ...).
	Op string
}

// NewLiteral returns a literal control item.
func NewLiteral(v value.Value) Item { return Item{Kind: Literal, Literal: v} }

// NewName returns an identifier-reference control item.
func NewName(name string) Item { return Item{Kind: Name, Name: name} }

// NewGamma returns the gamma (application) marker.
func NewGamma() Item { return Item{Kind: Gamma} }

// NewBeta returns a conditional-branch marker carrying the two pre-compiled
// branch sequences.
func NewBeta(then, els []Item) Item { return Item{Kind: Beta, Then: then, Else: els} }

// NewLambdaForm returns a lambda-form marker: reducing it captures the
// current environment into a lambda closure (spec.md §4.6 Rule 2).
func NewLambdaForm(bound []string, bodyIndex int, body []Item) Item {
	return Item{Kind: LambdaForm, BoundVars: bound, BodyIndex: bodyIndex, Body: body}
}

// NewTupleFormer returns a tuple-construction marker of the given arity.
func NewTupleFormer(arity int) Item { return Item{Kind: TupleFormer, Arity: arity} }

// NewOperator returns an operator control item.
func NewOperator(op string) Item { return Item{Kind: Operator, Op: op} }
