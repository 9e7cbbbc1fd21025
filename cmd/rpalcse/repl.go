package rpalcse

import (
	"github.com/spf13/cobra"

	"github.com/rpalvm/cse/repl"
)

var replPrompt string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive CSE machine session",
	Long: `Start an interactive session that reads one JSON-encoded standardized
AST per line and evaluates it on the CSE machine.`,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl(replPrompt)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVarP(&replPrompt, "prompt", "p", "rpalcse> ", "REPL prompt")
}
