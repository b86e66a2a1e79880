// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahellebusch/hellebusch.io/envconf"
	"github.com/sahellebusch/hellebusch.io/schema"
)

const testSchemaHCL = `
field "DATABASE_URL" {
  type      = "string"
  required  = true
  sensitive = true
}

field "PORT" {
  type     = "number"
  required = true
}

field "LOG_LEVEL" {
  type   = "enum"
  values = ["debug", "info", "warn", "error"]
}

field "WORKERS" {
  type    = "number"
  default = "4"
}
`

// writeTestFile drops contents into a temp file and returns its path.
func writeTestFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func testCheckSchema(t *testing.T) schema.Schema {
	t.Helper()

	s, err := schema.Decode("envguard.hcl", []byte(testSchemaHCL))
	require.NoError(t, err)
	return s
}

func TestCheckCommand_Run(t *testing.T) {
	schemaFile := writeTestFile(t, "envguard.hcl", testSchemaHCL)
	goodEnv := writeTestFile(t, "good.env", "DATABASE_URL=postgres://localhost:5432/app\nPORT=8080\nLOG_LEVEL=info\n")
	badEnv := writeTestFile(t, "bad.env", "PORT=eight\nLOG_LEVEL=verbose\n")

	testCases := []struct {
		name   string
		args   []string
		expect int
	}{
		{
			name:   "unknown flags produce a flag parse error",
			args:   []string{"-no-such-flag"},
			expect: FlagParseError,
		},
		{
			name:   "missing schema file produces a schema error",
			args:   []string{"-schema", "testdata/does-not-exist.hcl", "-quiet"},
			expect: SchemaError,
		},
		{
			name:   "missing env file produces a setup error",
			args:   []string{"-schema", schemaFile, "-env-file", "testdata/does-not-exist.env", "-quiet"},
			expect: SetupError,
		},
		{
			name:   "satisfied environment succeeds",
			args:   []string{"-schema", schemaFile, "-env-file", goodEnv, "-quiet"},
			expect: Success,
		},
		{
			name:   "violations produce a config error",
			args:   []string{"-schema", schemaFile, "-env-file", badEnv, "-quiet"},
			expect: ConfigError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ui := cli.NewMockUi()
			c := NewCheckCommand(ui)
			assert.Equal(t, tc.expect, c.Run(tc.args))
		})
	}
}

func TestCheckCommand_RunReportsEveryViolation(t *testing.T) {
	schemaFile := writeTestFile(t, "envguard.hcl", testSchemaHCL)
	envFile := writeTestFile(t, "bad.env", "PORT=eight\nLOG_LEVEL=verbose\n")

	ui := cli.NewMockUi()
	c := NewCheckCommand(ui)
	rc := c.Run([]string{"-schema", schemaFile, "-env-file", envFile, "-quiet"})
	require.Equal(t, ConfigError, rc)

	// All three violations surface in one pass, not just the first.
	errOut := ui.ErrorWriter.String()
	assert.Contains(t, errOut, "DATABASE_URL")
	assert.Contains(t, errOut, "PORT")
	assert.Contains(t, errOut, "LOG_LEVEL")
}

func TestCheckCommand_RunVerdict(t *testing.T) {
	schemaFile := writeTestFile(t, "envguard.hcl", testSchemaHCL)
	envFile := writeTestFile(t, "good.env", "DATABASE_URL=postgres://localhost:5432/app\nPORT=8080\n")

	ui := cli.NewMockUi()
	c := NewCheckCommand(ui)
	rc := c.Run([]string{"-schema", schemaFile, "-env-file", envFile, "-quiet"})
	require.Equal(t, Success, rc)

	// DATABASE_URL, PORT, and the defaulted WORKERS hold values; the
	// optional LOG_LEVEL stays unset.
	assert.Contains(t, ui.OutputWriter.String(), "environment ok: 3 of 4 fields hold values")
}

func Test_writeFieldSummary(t *testing.T) {
	s := testCheckSchema(t)
	env := envconf.NewMapEnvironment(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/app",
		"LOG_LEVEL":    "verbose",
	})
	results := envconf.Inspect(s, envconf.WithEnvironment(env))

	b := new(bytes.Buffer)
	require.NoError(t, writeFieldSummary(b, results))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 5) // header plus one row per field

	assert.Contains(t, lines[0], "field")
	assert.Contains(t, lines[0], "status")

	// Rows stay in schema declaration order.
	assert.Contains(t, lines[1], "DATABASE_URL")
	assert.Contains(t, lines[1], "valid")
	assert.Contains(t, lines[2], "PORT")
	assert.Contains(t, lines[2], "missing")
	assert.Contains(t, lines[3], "LOG_LEVEL")
	assert.Contains(t, lines[3], "invalid")
	assert.Contains(t, lines[4], "WORKERS")
	assert.Contains(t, lines[4], "default")
}

func Test_resolveEnvironment(t *testing.T) {
	t.Run("empty name snapshots the process environment", func(t *testing.T) {
		t.Setenv("ENVGUARD_TEST_SENTINEL", "ok")

		env, err := resolveEnvironment("")
		require.NoError(t, err)

		v, ok := env.Lookup("ENVGUARD_TEST_SENTINEL")
		assert.True(t, ok)
		assert.Equal(t, "ok", v)
	})

	t.Run("named file replaces the process environment", func(t *testing.T) {
		t.Setenv("ENVGUARD_TEST_SENTINEL", "ok")
		path := writeTestFile(t, "test.env", "# local overrides\nPORT=8080\n")

		env, err := resolveEnvironment(path)
		require.NoError(t, err)

		_, ok := env.Lookup("ENVGUARD_TEST_SENTINEL")
		assert.False(t, ok)
		v, ok := env.Lookup("PORT")
		assert.True(t, ok)
		assert.Equal(t, "8080", v)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := resolveEnvironment("testdata/does-not-exist.env")
		assert.Error(t, err)
	})
}
