package main

import (
	"fmt"
	"os"

	"github.com/byrnedo/sentinel-setup/internal/cli"
	"github.com/byrnedo/sentinel-setup/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
