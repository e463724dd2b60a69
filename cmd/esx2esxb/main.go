// Command esx2esxb converts one ESExpr expression from text to binary form,
// reading a file or stdin and writing a file or stdout.
package main

import (
	"esexpr/internal/cli"
	"esexpr/internal/convert"
)

func main() {
	cli.Run(cli.NewConvertCommand(
		"esx2esxb",
		"Convert an ESExpr expression from text to binary form",
		convert.Text,
		convert.Binary,
	))
}
