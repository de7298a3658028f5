package main

import (
	"os"

	"github.com/linerelay/cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
