// Package cli carries the shared plumbing of the converter tools: the
// file-or-stdin stream selection and the cobra command scaffolding.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"esexpr/internal/convert"
	"esexpr/internal/version"
)

// OpenInput selects the input stream: the first positional argument
// names a file, and a missing or "-" argument selects stdin.
func OpenInput(args []string) (io.ReadCloser, error) {
	if len(args) < 1 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenOutput selects the output stream: the second positional argument
// names a file, and a missing or "-" argument selects stdout.
func OpenOutput(args []string) (io.WriteCloser, error) {
	if len(args) < 2 || args[1] == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(args[1])
	if err != nil {
		return nil, err
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewConvertCommand builds the root command of one converter tool.
func NewConvertCommand(name, short string, in, out convert.Format) *cobra.Command {
	cmd := &cobra.Command{
		Use:           name + " [input|-] [output|-]",
		Short:         short,
		Args:          cobra.MaximumNArgs(2),
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := OpenInput(args)
			if err != nil {
				return err
			}
			defer input.Close()

			output, err := OpenOutput(args)
			if err != nil {
				return err
			}

			if err := convert.Convert(in, out, input, output); err != nil {
				output.Close()
				return err
			}
			return output.Close()
		},
	}
	cmd.PersistentFlags().String("color", "auto", "colorize error output (auto|on|off)")
	return cmd
}

// Run executes a converter command, printing failures to stderr and
// exiting non-zero.
func Run(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		printError(cmd, err)
		os.Exit(1)
	}
}

func printError(cmd *cobra.Command, err error) {
	colorFlag, flagErr := cmd.PersistentFlags().GetString("color")
	useColor := flagErr == nil &&
		(colorFlag == "on" || (colorFlag == "auto" && term.IsTerminal(int(os.Stderr.Fd()))))

	prefix := "error:"
	if useColor {
		prefix = color.New(color.FgRed, color.Bold).Sprint(prefix)
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", prefix, err)
}
