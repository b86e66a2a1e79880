// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package command

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/cli"
	"github.com/mitchellh/go-homedir"

	"github.com/sahellebusch/hellebusch.io/redact"
)

// envRedactSpec is the environment variable consulted for a redaction spec
// when the -spec flag is not given.
const envRedactSpec = "ENVGUARD_REDACT_SPEC"

var _ cli.Command = &RedactCommand{}

type RedactCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// Rules file location
	rules string

	// JSON redaction spec; falls back to envRedactSpec when empty
	spec string

	// Record stream source; stdin when empty
	in string

	// Record stream destination; stdout when empty
	out string
}

func (c *RedactCommand) init() {
	const (
		rulesUsageText = "Path to the HCL rules file registering one redaction rule per field"
		specUsageText  = "JSON object of booleans directing which fields to redact, e.g. '{\"ssn\": true}'. Falls back to the ENVGUARD_REDACT_SPEC environment variable when unset"
		inUsageText    = "Read newline-delimited JSON records from this file instead of stdin"
		outUsageText   = "Write redacted records to this file instead of stdout"
	)

	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("redact", flag.ContinueOnError)

	c.flags.StringVar(&c.rules, "rules", "redact.hcl", rulesUsageText)
	c.flags.StringVar(&c.spec, "spec", "", specUsageText)
	c.flags.StringVar(&c.in, "in", "", inUsageText)
	c.flags.StringVar(&c.out, "out", "", outUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	c.flags.SetOutput(io.Discard)
}

// NewRedactCommand produces a new *command pointer, initialized for use in a CLI application.
func NewRedactCommand(ui cli.Ui) *RedactCommand {
	c := &RedactCommand{ui: ui}
	c.init()
	return c
}

// RedactCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func RedactCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewRedactCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *RedactCommand) Help() string {
	helpText := `Usage: envguard redact [options]

Reads newline-delimited JSON records, redacts the fields the spec directs using the registered rules, and writes the redacted records back out. A record is either redacted in full or rejected; partially-redacted records are never emitted.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *RedactCommand) Synopsis() string {
	return "Redact fields in a stream of JSON records"
}

// Run executes the command.
func (c *RedactCommand) Run(args []string) int {
	if err := c.parseFlags(args); err != nil {
		// Output the specific error to help the user understand what went wrong.
		c.ui.Warn(err.Error())
		// Since there was an issue in input, let's show our Help to try and assist the user.
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	l := configureLogging("envguard")

	rulesPath, err := homedir.Expand(c.rules)
	if err != nil {
		l.Error("Failed to expand rules path", "rules", c.rules, "error", err)
		return RulesError
	}
	reg, err := redact.LoadRules(rulesPath)
	if err != nil {
		l.Error("Failed to load redaction rules", "rules", rulesPath, "error", err)
		c.ui.Error(err.Error())
		return RulesError
	}

	encoded := c.spec
	if encoded == "" {
		encoded = os.Getenv(envRedactSpec)
	}
	if encoded == "" {
		c.ui.Error(fmt.Sprintf("no redaction spec provided; pass -spec or set %s", envRedactSpec))
		return RulesError
	}
	spec, err := redact.ParseSpec(encoded)
	if err != nil {
		l.Error("Failed to parse redaction spec", "error", err)
		c.ui.Error(err.Error())
		return RulesError
	}

	in, out, closer, err := c.openStreams()
	if err != nil {
		l.Error("Failed to open record stream", "error", err)
		return SetupError
	}
	defer closer()

	if err := redact.Stream(spec, reg, out, in); err != nil {
		c.ui.Error(err.Error())
		return RedactError
	}

	if c.out != "" {
		c.ui.Output(fmt.Sprintf("Redacted records written to %s", c.out))
	}
	return Success
}

func (c *RedactCommand) parseFlags(args []string) error {
	return c.flags.Parse(args)
}

// openStreams resolves the -in and -out flags into a reader and writer,
// defaulting to stdin and stdout. The returned closer releases whichever
// files were opened and is safe to call when neither flag was set.
func (c *RedactCommand) openStreams() (io.Reader, io.Writer, func(), error) {
	var (
		in  io.Reader = os.Stdin
		out io.Writer = os.Stdout

		files []*os.File
	)

	closer := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	if c.in != "" {
		path, err := homedir.Expand(c.in)
		if err != nil {
			return nil, nil, closer, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, closer, err
		}
		files = append(files, f)
		in = f
	}

	if c.out != "" {
		path, err := homedir.Expand(c.out)
		if err != nil {
			closer()
			return nil, nil, func() {}, err
		}
		f, err := os.Create(path)
		if err != nil {
			closer()
			return nil, nil, func() {}, err
		}
		files = append(files, f)
		out = f
	}

	return in, out, closer, nil
}
