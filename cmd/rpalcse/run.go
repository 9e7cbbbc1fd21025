package rpalcse

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpalvm/cse/pkg/ast"
	"github.com/rpalvm/cse/pkg/machine"
)

var (
	runExpression bool
	runQuiet      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Evaluate one or more standardized ASTs",
	Long: `Evaluate one or more JSON-encoded standardized ASTs supplied via the
command line or a file, printing the final value of each to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := runReadDocuments(args)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := runOne(cmd.OutOrStdout(), doc); err != nil {
				return err
			}
		}
		return nil
	},
}

func runOne(w io.Writer, doc []byte) error {
	root, err := ast.Decode(doc)
	if err != nil {
		return fmt.Errorf("rpalcse: %w", err)
	}
	result, err := machine.Evaluate(root, w)
	if err != nil {
		return fmt.Errorf("rpalcse: %w", err)
	}
	if !runQuiet {
		fmt.Fprintln(w, result.String())
	}
	return nil
}

func runReadDocuments(args []string) ([][]byte, error) {
	if len(args) == 0 {
		b, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil
	}
	docs := make([][]byte, len(args))
	for i, arg := range args {
		if runExpression {
			docs[i] = []byte(arg)
			continue
		}
		b, err := ioutil.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		docs[i] = b
	}
	return docs, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as inline JSON AST documents rather than file paths")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false,
		"Suppress printing the final value; Print/print builtin output is unaffected")
}
