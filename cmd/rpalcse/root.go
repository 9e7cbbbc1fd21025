// Package rpalcse provides the cobra command tree for the rpalcse binary:
// a driver that evaluates a standardized AST (package ast) on the CSE
// machine (package machine), the way the teacher's cmd package wires
// lisp.NewEnv and parser.Parse behind cobra commands.
package rpalcse

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rpalcse",
	Short: "Evaluate standardized RPAL ASTs on the CSE machine",
	Long: `rpalcse evaluates a standardized RPAL abstract syntax tree with the
Control-Stack-Environment machine. It does not parse RPAL source text; its
input is the JSON-encoded standardized AST that a lexer/parser/standardizer
would otherwise produce.`,
}

// Execute runs the root command, exiting the process with a nonzero status
// on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
