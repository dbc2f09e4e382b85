// goserde converts and inspects documents in the text and binary formats of
// the goserde library.
//
// Usage:
//
//	goserde fmt     [flags] [file]   reformat a JSON document
//	goserde convert [flags] [file]   convert between json, yaml and cbor
//	goserde diag    [flags] [file]   print CBOR diagnostic notation
//	goserde schema  [flags] [file]   infer a JSON Schema from a sample
//
// Input is read from file, or from stdin when no file is given.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	goserde "github.com/reoring/goserde"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// usageError marks command-line mistakes (exit status 2).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error { return usageError{msg: fmt.Sprintf(format, a...)} }

type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

var commands = []command{
	{"fmt", "reformat a JSON document", runFmt},
	{"convert", "convert between json, yaml and cbor", runConvert},
	{"diag", "print CBOR diagnostic notation", runDiag},
	{"schema", "infer a JSON Schema from a sample document", runSchema},
}

// env carries the process streams into a subcommand.
type env struct {
	stdin          io.Reader
	stdout, stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) == 0 {
		printUsage(stderr)
		return usagef("missing command")
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			err := c.run(e, args[1:])
			if errors.Is(err, pflag.ErrHelp) {
				return nil
			}
			return explain(err)
		}
	}
	printUsage(stderr)
	return usagef("unknown command %q", args[0])
}

// explain keeps only the first issue of a library error, with its position.
func explain(err error) error {
	iss, ok := goserde.AsIssues(err)
	if !ok || len(iss) == 0 {
		return err
	}
	return iss[:1]
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "goserde converts and inspects serialized documents.\n\nUsage:\n  goserde <command> [flags] [file]\n\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nRun 'goserde <command> --help' for the flags of a command.")
}
