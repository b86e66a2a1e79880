// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/sahellebusch/hellebusch.io/command"
	"github.com/sahellebusch/hellebusch.io/version"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI("envguard", version.GetVersion().SemanticVersion())
	c.Args = args
	c.Commands = map[string]cli.CommandFactory{
		"check":   command.CheckCommandFactory(ui),
		"print":   command.PrintCommandFactory(ui),
		"redact":  command.RedactCommandFactory(ui),
		"version": command.VersionCommandFactory(ui),
	}

	rc, err := c.Run()
	if err != nil {
		hclog.L().Error("Failed to run command", "error", err)
	}
	return rc
}
