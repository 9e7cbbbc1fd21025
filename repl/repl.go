// Package repl implements an interactive line-oriented driver for the CSE
// machine: each line of input is a complete JSON-encoded standardized AST
// (package ast), evaluated immediately on package machine. It mirrors the
// teacher's own repl package (readline-based prompt, ctrl-C interrupts the
// current line, EOF ends the session).
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rpalvm/cse/pkg/ast"
	"github.com/rpalvm/cse/pkg/machine"
)

// RunRepl runs the interactive evaluator loop, printing prompt before each
// line and writing evaluation results (and any Print/print builtin output)
// to stdout.
func RunRepl(prompt string) {
	rl, err := readline.New(prompt)
	if err != nil {
		panic(err)
	}

	for {
		line, err := rl.ReadSlice()
		if err != nil && err != readline.ErrInterrupt {
			if err != io.EOF {
				errln(err)
			}
			break
		}
		if err == readline.ErrInterrupt {
			continue
		}
		line = []byte(strings.TrimSpace(string(line)))
		if len(line) == 0 {
			continue
		}
		evalLine(line)
	}
	errln("done")
}

func evalLine(line []byte) {
	root, err := ast.Decode(line)
	if err != nil {
		errln(err)
		return
	}
	v, err := machine.Evaluate(root, os.Stdout)
	if err != nil {
		errln(err)
		return
	}
	fmt.Println(v.String())
}

func errln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}
