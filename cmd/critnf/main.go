// Command critnf rewrites SQL criteria documents into normal form.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/critnf/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
