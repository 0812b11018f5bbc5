package main

import (
	"fmt"
	"os"
)

// agegate - CLI client and API service for zero-knowledge age verification
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
