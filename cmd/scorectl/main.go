package main

import (
	"os"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
