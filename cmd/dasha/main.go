package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/dasha/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own structured errors; anything else
		// (flag/usage errors cobra swallowed) still needs a message.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
