// Command esxb2esx converts one ESExpr expression from binary to text form,
// reading a file or stdin and writing a file or stdout.
package main

import (
	"esexpr/internal/cli"
	"esexpr/internal/convert"
)

func main() {
	cli.Run(cli.NewConvertCommand(
		"esxb2esx",
		"Convert an ESExpr expression from binary to text form",
		convert.Binary,
		convert.Text,
	))
}
