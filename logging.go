package main

import (
	"os"

	"github.com/fatih/color"
)

var warningColor = color.New(color.FgYellow)

func logWarning(message string) {
	warningColor.Fprintln(os.Stderr, "Warning:", message)
}
