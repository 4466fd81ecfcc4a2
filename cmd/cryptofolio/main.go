package main

import (
	"os"

	"github.com/traderlab/cryptofolio/cmd/cryptofolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
