// Package main is the entry point for the campusgate application.
package main

import (
	"os"

	"github.com/campusworks/campusgate/cmd/campusgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
