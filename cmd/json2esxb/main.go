// Command json2esxb converts one ESExpr expression from JSON to binary form,
// reading a file or stdin and writing a file or stdout.
package main

import (
	"esexpr/internal/cli"
	"esexpr/internal/convert"
)

func main() {
	cli.Run(cli.NewConvertCommand(
		"json2esxb",
		"Convert an ESExpr expression from JSON to binary form",
		convert.JSON,
		convert.Binary,
	))
}
