// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package command

// Success indicates a successful command execution.
const Success int = 0

// The following error group is intended for issues within the command's execution.
const (
	// FlagParseError indicates that a command was unable to successfully parse the flags/arguments provided to it.
	FlagParseError int = iota + 16

	// SchemaError indicates that the schema file could not be read or did not describe a usable schema.
	SchemaError

	// ConfigError indicates that the environment did not satisfy the schema.
	ConfigError

	// RulesError indicates that the redaction rules or the redaction spec could not be loaded.
	RulesError

	// OutputError indicates an error writing a report or the redacted record stream.
	OutputError

	// SetupError is returned when errors are encountered while setting up prerequisites for a command to run; e.g. env files, input and output files
	SetupError
)

// The following error group is intended for issues while processing records.
const (
	// RedactError is returned when a record in the stream cannot be redacted under the given spec and rules.
	RedactError int = iota + 32
)
