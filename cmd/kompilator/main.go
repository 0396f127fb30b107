package main

import (
	"os"

	"github.com/Senko88/kompilators/cmd/kompilator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
