package main

import (
	"os"

	"github.com/kilianp07/seaplane/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
