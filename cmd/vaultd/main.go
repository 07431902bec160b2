/*
Vaultd operates a time-locked multi-approver vault stored on the local disk.

Each command that changes the state is processed as a separate block and
committed before the command returns. Use the --time flag to provide the
logical clock of the operation, otherwise the wall clock is used.
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
