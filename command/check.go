// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package command

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/mitchellh/go-homedir"

	"github.com/sahellebusch/hellebusch.io/envconf"
	"github.com/sahellebusch/hellebusch.io/schema"
	"github.com/sahellebusch/hellebusch.io/util"
)

var _ cli.Command = &CheckCommand{}

type CheckCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// Schema file location
	schema string

	// Optional KEY=VALUE file checked in place of the process environment
	envFile string

	// Suppress the per-field table and print only the verdict
	quiet bool
}

func (c *CheckCommand) init() {
	const (
		schemaUsageText  = "Path to the schema file declaring the expected environment variables (.hcl, .json, .yaml)"
		envFileUsageText = "Check KEY=VALUE pairs from this file instead of the process environment"
		quietUsageText   = "Suppress the per-field table and print only the verdict"
	)

	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("check", flag.ContinueOnError)

	c.flags.StringVar(&c.schema, "schema", "envguard.hcl", schemaUsageText)
	c.flags.StringVar(&c.envFile, "env-file", "", envFileUsageText)
	c.flags.BoolVar(&c.quiet, "quiet", false, quietUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	c.flags.SetOutput(io.Discard)
}

// NewCheckCommand produces a new *command pointer, initialized for use in a CLI application.
func NewCheckCommand(ui cli.Ui) *CheckCommand {
	c := &CheckCommand{ui: ui}
	c.init()
	return c
}

// CheckCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func CheckCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewCheckCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *CheckCommand) Help() string {
	helpText := `Usage: envguard check [options]

Validates an environment against a schema. Every violation is collected and reported in a single pass, and the command exits non-zero unless the whole schema is satisfied.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *CheckCommand) Synopsis() string {
	return "Validate the environment against a schema"
}

// Run executes the command.
func (c *CheckCommand) Run(args []string) int {
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

	// One snapshot feeds both the table and the verdict, so the two always agree.
	if !c.quiet {
		results := envconf.Inspect(s, envconf.WithEnvironment(env))
		if err := writeFieldSummary(os.Stdout, results); err != nil {
			l.Warn("failed to render the field summary; the verdict below still stands", "err", err)
		}
	}

	cfg, err := envconf.Load(s, envconf.WithEnvironment(env))
	if err != nil {
		c.ui.Error(err.Error())
		return ConfigError
	}

	c.ui.Output(fmt.Sprintf("environment ok: %d of %d fields hold values", cfg.Len(), s.Len()))
	return Success
}

func (c *CheckCommand) parseFlags(args []string) error {
	return c.flags.Parse(args)
}

// configureLogging takes a logger name, sets the default configuration, grabs the LOG_LEVEL from our ENV vars, and
// returns a configured and usable logger.
func configureLogging(loggerName string) hclog.Logger {
	// Create logger, set default and log level
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  loggerName,
		Color: hclog.AutoColor,
	})
	hclog.SetDefault(appLogger)
	if logStr := os.Getenv("LOG_LEVEL"); logStr != "" {
		if level := hclog.LevelFromString(logStr); level != hclog.NoLevel {
			appLogger.SetLevel(level)
			appLogger.Debug("Logger configuration change", "LOG_LEVEL", hclog.Fmt("%s", logStr))
		}
	}
	return hclog.Default()
}

// loadSchema expands a leading ~ in the given path and decodes the schema file it points at.
func loadSchema(path string) (schema.Schema, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return schema.Schema{}, err
	}
	return schema.Load(expanded)
}

// resolveEnvironment snapshots the process environment, or reads KEY=VALUE pairs
// from the given file when one is named.
func resolveEnvironment(envFile string) (envconf.Environment, error) {
	if envFile == "" {
		return envconf.NewOSEnvironment(), nil
	}

	expanded, err := homedir.Expand(envFile)
	if err != nil {
		return envconf.Environment{}, err
	}
	pairs, err := util.ReadEnvFile(expanded)
	if err != nil {
		return envconf.Environment{}, err
	}
	return envconf.NewPairsEnvironment(pairs), nil
}

// writeFieldSummary renders one row per schema field. Results arrive in schema
// declaration order, which keeps the rows deterministic between runs.
func writeFieldSummary(writer io.Writer, results []envconf.Result) error {
	t := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	headers := []string{
		"field",
		"type",
		"status",
		"detail",
	}

	_, err := fmt.Fprint(t, formatReportLine(headers...))
	if err != nil {
		return err
	}

	for _, r := range results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}

		_, err := fmt.Fprint(t, formatReportLine(
			r.Field.Name,
			string(r.Field.Type),
			string(r.Status),
			detail))
		if err != nil {
			return err
		}
	}

	err = t.Flush()
	if err != nil {
		return err
	}
	return nil
}

func formatReportLine(cells ...string) string {
	format := ""

	// The coercion from the argument of type []string to type []interface is required for the later
	// call to fmt.Sprintf, in which variadic arguments must be of type any/interface{}.
	strValues := make([]interface{}, len(cells))
	for i, cell := range cells {
		format += "%s\t"
		strValues[i] = cell
	}

	format += "\n"

	return fmt.Sprintf(format, strValues...)
}
