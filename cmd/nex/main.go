package main

import (
	"fmt"
	"os"

	"github.com/nexlang/nex/cmd/nex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
