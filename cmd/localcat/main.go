// localcat is a local computer-aided translation matcher.
// Point it at a project context file and it answers queries with glossary
// term hits and translation-memory matches, exact first, fuzzy on a miss.
package main

import (
	"os"

	"github.com/corey/localcat/cmd/localcat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
