package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pithos-gov/pithos/internal/cli"
	"github.com/pithos-gov/pithos/internal/cli/render"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
