package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/skeletor/cmd/skeletor"
	"github.com/arthur-debert/skeletor/internal/version"
)

// Writes one man page per command into the directory given as the only
// argument, or the root page to stdout when there is none.
func main() {
	rootCmd := skeletor.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SKELETOR",
		Section: "1",
		Source:  "skeletor " + version.Version,
		Manual:  "skeletor manual",
	}

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, header, os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
