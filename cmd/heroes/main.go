package main

import (
	"os"

	"github.com/kanehiroyuu/hero-tour/internal/presentation/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
