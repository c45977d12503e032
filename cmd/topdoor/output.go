package main

import (
	"io"

	"github.com/gookit/color"
)

func printSuccess(w io.Writer, format string, args ...any) {
	color.Fprintf(w, "<green>✔</> "+format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	color.Fprintf(w, "<yellow>!</> "+format+"\n", args...)
}

func printFailure(w io.Writer, format string, args ...any) {
	color.Fprintf(w, "<red>✘</> "+format+"\n", args...)
}
