// Command rpalcse evaluates standardized RPAL abstract syntax trees on the
// CSE machine.
package main

import "github.com/rpalvm/cse/cmd/rpalcse"

func main() {
	rpalcse.Execute()
}
