package main

import (
	"os"

	"github.com/abexport/abexport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
