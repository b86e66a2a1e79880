// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package command

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/kr/text"
)

// maxLineLength is the maximum width of any line.
const maxLineLength int = 72

// Usage assembles a command's help output: the usage slug followed by each
// of its flags, wrapped and indented.
func Usage(txt string, flags *flag.FlagSet) string {
	out := new(bytes.Buffer)

	// Write out the usage slug.
	out.WriteString(strings.TrimSpace(txt))
	out.WriteString("\n")
	out.WriteString("\n")

	if flags != nil {
		out.WriteString("Command Options\n\n")
		flags.VisitAll(func(f *flag.Flag) {
			writeFlag(out, f)
		})
	}

	return strings.TrimRight(out.String(), "\n")
}

// writeFlag prints a single flag, including its default value when one is set.
func writeFlag(w io.Writer, f *flag.Flag) {
	if f.DefValue != "" && f.DefValue != "false" {
		_, _ = fmt.Fprintf(w, "  -%s (default: %s)\n", f.Name, f.DefValue)
	} else {
		_, _ = fmt.Fprintf(w, "  -%s\n", f.Name)
	}

	indented := wrapAtLength(f.Usage, 5)
	_, _ = fmt.Fprintf(w, "%s\n\n", indented)
}

// wrapAtLength wraps the given text at the maxLineLength, taking into account
// any provided left padding.
func wrapAtLength(s string, pad int) string {
	wrapped := text.Wrap(s, maxLineLength-pad)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
