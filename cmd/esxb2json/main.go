// Command esxb2json converts one ESExpr expression from binary to JSON form,
// reading a file or stdin and writing a file or stdout.
package main

import (
	"esexpr/internal/cli"
	"esexpr/internal/convert"
)

func main() {
	cli.Run(cli.NewConvertCommand(
		"esxb2json",
		"Convert an ESExpr expression from binary to JSON form",
		convert.Binary,
		convert.JSON,
	))
}
