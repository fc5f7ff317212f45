package main

import (
	"os"

	"github.com/audionote/audionote/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
