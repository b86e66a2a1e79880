// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package command

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsage(t *testing.T) {
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.String("schema", "envguard.hcl", "Path to the schema file")
	flags.Bool("quiet", false, "Suppress the per-field table")

	out := Usage("Usage: envguard check [options]\n", flags)

	assert.True(t, strings.HasPrefix(out, "Usage: envguard check [options]"))
	assert.Contains(t, out, "Command Options")
	assert.Contains(t, out, "-schema (default: envguard.hcl)")
	assert.Contains(t, out, "-quiet\n")
	assert.Contains(t, out, "     Path to the schema file")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestUsageNilFlags(t *testing.T) {
	out := Usage("Usage: envguard version", nil)
	assert.Equal(t, "Usage: envguard version", out)
}

func Test_wrapAtLength(t *testing.T) {
	long := strings.Repeat("word ", 30)
	wrapped := wrapAtLength(strings.TrimSpace(long), 5)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.True(t, strings.HasPrefix(line, "     "), "line %q lacks padding", line)
		assert.LessOrEqual(t, len(line), maxLineLength, "line %q exceeds the wrap width", line)
	}
}
