// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package redact

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// customerRegistry covers the fields used across these tests, in a fixed
// registration order.
func customerRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(
		newTestRule(t, RuleConfig{Field: "firstName"}),
		newTestRule(t, RuleConfig{Field: "lastName"}),
		newTestRule(t, RuleConfig{Field: "ssn"}),
		newTestRule(t, RuleConfig{Field: "dob"}),
	)
	require.NoError(t, err, "error creating test registry")
	return reg
}

func TestApply(t *testing.T) {
	rec := Record{
		"firstName": "Howard",
		"lastName":  "Langston",
		"ssn":       "123456789",
		"dob":       "1947-07-30",
	}
	spec := Spec{
		"firstName": true,
		"lastName":  false,
		"ssn":       true,
		"dob":       false,
	}

	out, err := Apply(rec, spec, customerRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, Record{
		"firstName": "[REDACTED]",
		"lastName":  "Langston",
		"ssn":       "[REDACTED]",
		"dob":       "1947-07-30",
	}, out)
}

// The spec alone decides the output shape: the same record under specs that
// direct different fields comes out differently.
func TestApply_SpecDrivesOutput(t *testing.T) {
	rec := Record{
		"firstName": "Howard",
		"lastName":  "Langston",
		"ssn":       "123456789",
		"dob":       "1947-07-30",
	}
	reg := customerRegistry(t)

	some, err := Apply(rec, Spec{"firstName": true, "lastName": false, "ssn": true, "dob": false}, reg)
	require.NoError(t, err)
	all, err := Apply(rec, Spec{"firstName": true, "lastName": true, "ssn": true, "dob": true}, reg)
	require.NoError(t, err)

	assert.NotEqual(t, some, all)
	assert.Equal(t, Record{
		"firstName": "[REDACTED]",
		"lastName":  "[REDACTED]",
		"ssn":       "[REDACTED]",
		"dob":       "[REDACTED]",
	}, all)
}

// The caller's record must come back from Apply untouched, however the
// output is used afterwards.
func TestApply_NeverMutatesInput(t *testing.T) {
	rec := Record{
		"firstName": "Howard",
		"ssn":       "123456789",
	}
	spec := Spec{"firstName": true, "ssn": true}

	out, err := Apply(rec, spec, customerRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, "Howard", rec["firstName"])
	assert.Equal(t, "123456789", rec["ssn"])

	out["firstName"] = "clobbered"
	assert.Equal(t, "Howard", rec["firstName"])
}

func TestApply_UnregisteredFieldFailsWholeRecord(t *testing.T) {
	rec := Record{
		"firstName": "Howard",
		"nickname":  "the tourist",
	}
	spec := Spec{
		"firstName": true,
		"nickname":  true,
	}

	out, err := Apply(rec, spec, customerRegistry(t))
	require.Error(t, err)
	assert.Nil(t, out, "no partially redacted record may escape")

	var unregistered UnregisteredFieldError
	require.True(t, errors.As(err, &unregistered))
	assert.Equal(t, "nickname", unregistered.Field)
}

func TestApply_ReportsEveryMissingRuleSorted(t *testing.T) {
	spec := Spec{
		"zulu":  true,
		"alpha": true,
		"mike":  true,
	}

	_, err := Apply(Record{}, spec, customerRegistry(t))
	require.Error(t, err)

	// Sorted target order keeps the failure identical between runs.
	msg := err.Error()
	alpha := strings.Index(msg, "field=alpha")
	mike := strings.Index(msg, "field=mike")
	zulu := strings.Index(msg, "field=zulu")
	require.NotEqual(t, -1, alpha)
	require.NotEqual(t, -1, mike)
	require.NotEqual(t, -1, zulu)
	assert.Less(t, alpha, mike)
	assert.Less(t, mike, zulu)
}

func TestApply_SpecEdgeCases(t *testing.T) {
	reg := customerRegistry(t)

	tcs := []struct {
		name   string
		rec    Record
		spec   Spec
		expect Record
	}{
		{
			name:   "empty spec passes the record through",
			rec:    Record{"firstName": "Howard"},
			spec:   Spec{},
			expect: Record{"firstName": "Howard"},
		},
		{
			name:   "nil spec passes the record through",
			rec:    Record{"firstName": "Howard"},
			spec:   nil,
			expect: Record{"firstName": "Howard"},
		},
		{
			name:   "false entries need no rule at all",
			rec:    Record{"nickname": "the tourist"},
			spec:   Spec{"nickname": false},
			expect: Record{"nickname": "the tourist"},
		},
		{
			name:   "directed field absent from the record is skipped",
			rec:    Record{"firstName": "Howard"},
			spec:   Spec{"firstName": true, "ssn": true},
			expect: Record{"firstName": "[REDACTED]"},
		},
		{
			name:   "empty record stays empty",
			rec:    Record{},
			spec:   Spec{"ssn": true},
			expect: Record{},
		},
		{
			name:   "record fields outside the spec pass through",
			rec:    Record{"firstName": "Howard", "city": "Mound"},
			spec:   Spec{"firstName": true},
			expect: Record{"firstName": "[REDACTED]", "city": "Mound"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Apply(tc.rec, tc.spec, reg)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, out)
		})
	}
}

// Replacing with a fixed marker is idempotent: a second pass over already
// redacted output changes nothing.
func TestApply_MarkerIsIdempotent(t *testing.T) {
	rec := Record{"firstName": "Howard", "ssn": "123456789"}
	spec := Spec{"firstName": true, "ssn": true}
	reg := customerRegistry(t)

	once, err := Apply(rec, spec, reg)
	require.NoError(t, err)
	twice, err := Apply(once, spec, reg)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApply_RegistryOrderFixesOutput(t *testing.T) {
	// Two pattern rules on the same value would be order-sensitive; the
	// registry holds one rule per field, so order questions reduce to
	// which rule a field gets, and reruns cannot diverge.
	rec := Record{"note": "ssn 078-05-1120, again 078-05-1120"}
	spec := Spec{"note": true}

	reg, err := NewRegistry(
		newTestRule(t, RuleConfig{Field: "note", Strategy: StrategyPattern, Match: `\d{3}-\d{2}-\d{4}`}),
	)
	require.NoError(t, err)

	first, err := Apply(rec, spec, reg)
	require.NoError(t, err)
	second, err := Apply(rec, spec, reg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "ssn [REDACTED], again [REDACTED]", first["note"])
}

func TestApplyAll(t *testing.T) {
	recs := []Record{
		{"firstName": "Howard", "ssn": "123456789"},
		{"firstName": "Junior", "ssn": "987654321"},
	}
	spec := Spec{"ssn": true}

	out, err := ApplyAll(recs, spec, customerRegistry(t))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "[REDACTED]", out[0]["ssn"])
	assert.Equal(t, "[REDACTED]", out[1]["ssn"])
	assert.Equal(t, "Howard", out[0]["firstName"])

	// Inputs stay pristine.
	assert.Equal(t, "123456789", recs[0]["ssn"])
}

func TestApplyAll_FailureDiscardsBatch(t *testing.T) {
	recs := []Record{
		{"firstName": "Howard"},
		{"firstName": "Junior"},
	}
	spec := Spec{"nickname": true}

	out, err := ApplyAll(recs, spec, customerRegistry(t))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "record 0")
}

func TestParseSpec(t *testing.T) {
	tcs := []struct {
		name    string
		encoded string
		expect  Spec
		wantErr bool
	}{
		{
			name:    "object of booleans",
			encoded: `{"ssn": true, "dob": false}`,
			expect:  Spec{"ssn": true, "dob": false},
		},
		{
			name:    "empty object",
			encoded: `{}`,
			expect:  Spec{},
		},
		{
			name:    "non-boolean value",
			encoded: `{"ssn": "yes"}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			encoded: `["ssn"]`,
			wantErr: true,
		},
		{
			name:    "empty input",
			encoded: ``,
			wantErr: true,
		},
	}

	for _, tc := range tcs {
		s, err := ParseSpec(tc.encoded)
		if tc.wantErr {
			assert.Error(t, err, tc.name)
			continue
		}
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.expect, s, tc.name)
	}
}

func TestSpec_Fields(t *testing.T) {
	s := Spec{"zulu": true, "alpha": true, "mike": false}
	assert.Equal(t, []string{"alpha", "zulu"}, s.Fields())
}

func TestStream(t *testing.T) {
	in := strings.NewReader(
		`{"firstName":"Howard","ssn":"123456789"}` + "\n" +
			`{"firstName":"Junior","ssn":"987654321"}` + "\n")
	out := new(bytes.Buffer)
	spec := Spec{"ssn": true}

	err := Stream(spec, customerRegistry(t), out, in)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"firstName":"Howard","ssn":"[REDACTED]"}`, lines[0])
	assert.JSONEq(t, `{"firstName":"Junior","ssn":"[REDACTED]"}`, lines[1])
}

func TestStream_EmptyInput(t *testing.T) {
	out := new(bytes.Buffer)
	err := Stream(Spec{}, customerRegistry(t), out, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "", out.String())
}

func TestStream_StopsOnBadRecord(t *testing.T) {
	in := strings.NewReader(
		`{"ssn":"123456789"}` + "\n" +
			`{"nickname":"the tourist"}` + "\n")
	out := new(bytes.Buffer)
	spec := Spec{"ssn": true, "nickname": true}

	err := Stream(spec, customerRegistry(t), out, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 0")
}

func TestStream_StopsOnMalformedJSON(t *testing.T) {
	in := strings.NewReader(`{"ssn":"123456789"}` + "\n" + `{not json`)
	out := new(bytes.Buffer)

	err := Stream(Spec{"ssn": true}, customerRegistry(t), out, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}
