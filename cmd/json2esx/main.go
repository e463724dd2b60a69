// Command json2esx converts one ESExpr expression from JSON to text form,
// reading a file or stdin and writing a file or stdout.
package main

import (
	"esexpr/internal/cli"
	"esexpr/internal/convert"
)

func main() {
	cli.Run(cli.NewConvertCommand(
		"json2esx",
		"Convert an ESExpr expression from JSON to text form",
		convert.JSON,
		convert.Text,
	))
}
