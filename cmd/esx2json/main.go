// Command esx2json converts one ESExpr expression from text to JSON form,
// reading a file or stdin and writing a file or stdout.
package main

import (
	"esexpr/internal/cli"
	"esexpr/internal/convert"
)

func main() {
	cli.Run(cli.NewConvertCommand(
		"esx2json",
		"Convert an ESExpr expression from text to JSON form",
		convert.Text,
		convert.JSON,
	))
}
