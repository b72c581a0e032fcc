package main

import (
	"os"

	"github.com/rodkhai/carsearch/cmd/carsearch"
)

func main() {
	if err := carsearch.Execute(); err != nil {
		os.Exit(1)
	}
}
