// Command shiftgrid loads, filters, sorts, pages and browses tabular record
// snapshots, and serves stored snapshots over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/shiftgrid/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.GetExitCode(err))
}
