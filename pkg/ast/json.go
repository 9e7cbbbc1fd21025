package ast

import (
	"encoding/json"
	"fmt"

	"github.com/rpalvm/cse/pkg/value"
)

// wireNode is the JSON wire format for a standardized AST, used by the
// cmd/rpalcse driver and the repl package to read ASTs produced by an
// external (out-of-scope) lexer/parser/standardizer pipeline. No example
// repo in the retrieval pack ships a third-party AST interchange format;
// encoding/json is the pack's own default choice whenever one is needed
// (see DESIGN.md).
type wireNode struct {
	Kind string `json:"kind"`

	// ident
	Name string `json:"name,omitempty"`

	// literal
	Type  string          `json:"type,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`

	// lambda
	Vars []string  `json:"vars,omitempty"`
	Body *wireNode `json:"body,omitempty"`

	// gamma
	Rator *wireNode `json:"rator,omitempty"`
	Rand  *wireNode `json:"rand,omitempty"`

	// conditional
	Cond *wireNode `json:"cond,omitempty"`
	Then *wireNode `json:"then,omitempty"`
	Else *wireNode `json:"else,omitempty"`

	// tau
	Elems []*wireNode `json:"elems,omitempty"`

	// aug
	Tuple *wireNode `json:"tuple,omitempty"`
	Elem  *wireNode `json:"elem,omitempty"`

	// binop / unop
	Op      string    `json:"op,omitempty"`
	Left    *wireNode `json:"left,omitempty"`
	Right   *wireNode `json:"right,omitempty"`
	Operand *wireNode `json:"operand,omitempty"`
}

// Decode parses the JSON wire format for a standardized AST.
func Decode(data []byte) (*Node, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	return w.toNode()
}

func (w *wireNode) toNode() (*Node, error) {
	if w == nil {
		return nil, fmt.Errorf("ast: missing node")
	}
	switch w.Kind {
	case "ident":
		return NewIdent(w.Name), nil
	case "literal":
		return w.toLiteral()
	case "lambda":
		body, err := w.Body.toNode()
		if err != nil {
			return nil, err
		}
		return NewLambda(w.Vars, body), nil
	case "gamma":
		rator, err := w.Rator.toNode()
		if err != nil {
			return nil, err
		}
		rand, err := w.Rand.toNode()
		if err != nil {
			return nil, err
		}
		return NewGamma(rator, rand), nil
	case "cond":
		cond, err := w.Cond.toNode()
		if err != nil {
			return nil, err
		}
		then, err := w.Then.toNode()
		if err != nil {
			return nil, err
		}
		els, err := w.Else.toNode()
		if err != nil {
			return nil, err
		}
		return NewConditional(cond, then, els), nil
	case "tau":
		if len(w.Elems) < 2 {
			return nil, fmt.Errorf("ast: tau node requires at least two elements")
		}
		elems := make([]*Node, len(w.Elems))
		for i, e := range w.Elems {
			n, err := e.toNode()
			if err != nil {
				return nil, err
			}
			elems[i] = n
		}
		return NewTau(elems...), nil
	case "aug":
		tuple, err := w.Tuple.toNode()
		if err != nil {
			return nil, err
		}
		elem, err := w.Elem.toNode()
		if err != nil {
			return nil, err
		}
		return NewAug(tuple, elem), nil
	case "binop":
		left, err := w.Left.toNode()
		if err != nil {
			return nil, err
		}
		right, err := w.Right.toNode()
		if err != nil {
			return nil, err
		}
		return NewBinOp(w.Op, left, right), nil
	case "unop":
		operand, err := w.Operand.toNode()
		if err != nil {
			return nil, err
		}
		return NewUnOp(w.Op, operand), nil
	default:
		return nil, fmt.Errorf("ast: unknown node kind %q", w.Kind)
	}
}

func (w *wireNode) toLiteral() (*Node, error) {
	switch w.Type {
	case "int":
		var i int64
		if err := json.Unmarshal(w.Value, &i); err != nil {
			return nil, fmt.Errorf("ast: literal int: %w", err)
		}
		return NewLiteral(value.NewInt(i)), nil
	case "str":
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return nil, fmt.Errorf("ast: literal str: %w", err)
		}
		return NewLiteral(value.NewStr(s)), nil
	case "truth":
		var b bool
		if err := json.Unmarshal(w.Value, &b); err != nil {
			return nil, fmt.Errorf("ast: literal truth: %w", err)
		}
		return NewLiteral(value.NewTruth(b)), nil
	case "dummy":
		return NewLiteral(value.NewDummy()), nil
	case "nil":
		return NewLiteral(value.NewTuple()), nil
	default:
		return nil, fmt.Errorf("ast: unknown literal type %q", w.Type)
	}
}
