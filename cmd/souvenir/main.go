package main

import (
	"os"

	"github.com/adour/souvenir/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
