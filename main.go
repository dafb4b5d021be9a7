package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonesrussell/doctracer/cmd"
	"github.com/jonesrussell/doctracer/cmd/common"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, common.ErrIncomplete) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
