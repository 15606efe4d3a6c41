// main is the entry point for the pulsewatch CLI.
package main

import (
	"os"

	"github.com/pulsewatch/pulsewatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
