package main

import (
	"fmt"
	"os"

	"clementus360/wellness-sessions/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
