// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package command

import (
	"flag"
	"fmt"
	"io"

	"github.com/mitchellh/cli"
	"github.com/mitchellh/go-homedir"

	"github.com/sahellebusch/hellebusch.io/envconf"
	"github.com/sahellebusch/hellebusch.io/report"
	"github.com/sahellebusch/hellebusch.io/util"
)

var _ cli.Command = &PrintCommand{}

type PrintCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// Schema file location
	schema string

	// Optional KEY=VALUE file resolved in place of the process environment
	envFile string

	// Report write location; stdout when empty
	destination string

	// Include host facts in the report
	host bool
}

func (c *PrintCommand) init() {
	const (
		schemaUsageText      = "Path to the schema file declaring the expected environment variables (.hcl, .json, .yaml)"
		envFileUsageText     = "Resolve KEY=VALUE pairs from this file instead of the process environment"
		destinationUsageText = "Path the report should be written to. Prints to stdout when unset"
		destUsageText        = "Shorthand for -destination"
		hostUsageText        = "Include facts about the host in the report"
	)

	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("print", flag.ContinueOnError)

	c.flags.StringVar(&c.schema, "schema", "envguard.hcl", schemaUsageText)
	c.flags.StringVar(&c.envFile, "env-file", "", envFileUsageText)
	c.flags.StringVar(&c.destination, "destination", "", destinationUsageText)
	c.flags.StringVar(&c.destination, "dest", "", destUsageText)
	c.flags.BoolVar(&c.host, "host", false, hostUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	c.flags.SetOutput(io.Discard)
}

// NewPrintCommand produces a new *command pointer, initialized for use in a CLI application.
func NewPrintCommand(ui cli.Ui) *PrintCommand {
	c := &PrintCommand{ui: ui}
	c.init()
	return c
}

// PrintCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func PrintCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewPrintCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *PrintCommand) Help() string {
	helpText := `Usage: envguard print [options]

Resolves the environment against a schema and prints a JSON report of the outcome. Values of fields marked sensitive in the schema are redacted before the report is rendered.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *PrintCommand) Synopsis() string {
	return "Print a JSON report of the resolved environment"
}

// Run executes the command.
func (c *PrintCommand) Run(args []string) int {
	if err := c.parseFlags(args); err != nil {
		// Output the specific error to help the user understand what went wrong.
		c.ui.Warn(err.Error())
		// Since there was an issue in input, let's show our Help to try and assist the user.
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	l := configureLogging("envguard")

	s, err := loadSchema(c.schema)
	if err != nil {
		l.Error("Failed to load schema", "schema", c.schema, "error", err)
		c.ui.Error(err.Error())
		return SchemaError
	}

	env, err := resolveEnvironment(c.envFile)
	if err != nil {
		l.Error("Failed to read env file", "env-file", c.envFile, "error", err)
		return SetupError
	}

	// A report only renders for an environment that actually validates.
	cfg, err := envconf.Load(s, envconf.WithEnvironment(env))
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	var opts []report.Option
	if c.host {
		opts = append(opts, report.WithHostFacts())
	}

	rep, err := report.New(s, cfg, opts...)
	if err != nil {
		l.Error("Failed to build report", "error", err)
		return OutputError
	}

	if c.destination == "" {
		bts, err := util.InterfaceToJSON(rep)
		if err != nil {
			l.Error("Failed to marshal report", "error", err)
			return OutputError
		}
		c.ui.Output(string(bts))
		return Success
	}

	dest, err := homedir.Expand(c.destination)
	if err != nil {
		l.Error("Failed to expand destination", "destination", c.destination, "error", err)
		return OutputError
	}
	if err := util.WriteJSON(rep, dest); err != nil {
		l.Error("Failed to write report", "destination", dest, "error", err)
		return OutputError
	}

	c.ui.Output(fmt.Sprintf("Report written to %s", dest))
	return Success
}

func (c *PrintCommand) parseFlags(args []string) error {
	return c.flags.Parse(args)
}
