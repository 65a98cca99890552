package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Output colors
var (
	Brand  = color.New(color.FgHiYellow, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Good   = color.New(color.FgGreen)
	Warn   = color.New(color.FgYellow)
	Bad    = color.New(color.FgRed)
)

const Dot = "●"

// banner prints the dotfield banner with a subtitle
func banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s · %s\n\n", Brand.Sprint(Dot), Brand.Sprint("dotfield"), subtitle)
}

// field prints one aligned label/value row
func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %-18s %v\n", label+":", value)
}
