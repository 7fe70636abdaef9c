package main

import (
	"os"

	"github.com/pisaph/pisaph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
