package main

import (
	"os"

	"github.com/Amit91848/Leetwars/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
