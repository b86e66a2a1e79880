// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package redact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Record is one flat map of field names to text values, the shape customer
// data takes while it crosses this package.
type Record map[string]string

// Clone copies a record. Apply works on clones so a caller's record is
// never written to.
func (rec Record) Clone() Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// Spec says which fields of a record to redact. True means redact; false
// and absent both mean leave alone. A spec is data, not configuration: it
// arrives alongside the record it describes and changes per call.
type Spec map[string]bool

// ParseSpec decodes a spec from a JSON object of booleans, for example
// {"ssn":true,"dob":false}. Anything but booleans is rejected.
func ParseSpec(encoded string) (Spec, error) {
	var s Spec
	if err := json.Unmarshal([]byte(encoded), &s); err != nil {
		return nil, fmt.Errorf("could not decode redaction spec, err=%w", err)
	}
	return s, nil
}

// Fields lists the fields the spec directs redaction at, sorted so error
// reporting reads the same on every run.
func (s Spec) Fields() []string {
	fields := make([]string, 0, len(s))
	for f, on := range s {
		if on {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return fields
}

// Apply returns a redacted copy of the record; the input is never
// modified. Every field the spec directs redaction at must have a
// registered rule, and Apply fails before touching anything when one does
// not, so a caller never sees a partially redacted record. Rules run in
// registry order. Fields the spec leaves alone pass through verbatim, and
// directed fields absent from the record are simply skipped.
func Apply(rec Record, spec Spec, reg *Registry) (Record, error) {
	if err := coverage(spec, reg); err != nil {
		return nil, err
	}

	out := rec.Clone()
	for _, rule := range reg.rules {
		if !spec[rule.Field] {
			continue
		}
		v, ok := out[rule.Field]
		if !ok {
			continue
		}
		out[rule.Field] = rule.Apply(v)
	}
	return out, nil
}

// coverage verifies every directed field has a rule, collecting the misses
// in sorted order.
func coverage(spec Spec, reg *Registry) error {
	var missing *multierror.Error
	for _, field := range spec.Fields() {
		if _, ok := reg.Lookup(field); !ok {
			missing = multierror.Append(missing, UnregisteredFieldError{Field: field})
		}
	}
	if missing != nil {
		missing.ErrorFormat = targetList
		return missing
	}
	return nil
}

// ApplyAll redacts a batch of records under one spec. The first record
// that fails stops the batch and discards prior outputs, so callers never
// see a partial result.
func ApplyAll(recs []Record, spec Spec, reg *Registry) ([]Record, error) {
	out := make([]Record, len(recs))
	for i, rec := range recs {
		red, err := Apply(rec, spec, reg)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = red
	}
	return out, nil
}

// Stream reads newline-delimited JSON records from r, redacts each under
// the spec, and writes them to w, one record per line. The stream stops at
// the first record that fails to decode or redact; records already written
// stay written.
func Stream(spec Spec, reg *Registry, w io.Writer, r io.Reader) error {
	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)
	for i := 0; ; i++ {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("record %d: could not decode, err=%w", i, err)
		}
		red, err := Apply(rec, spec, reg)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := enc.Encode(red); err != nil {
			return fmt.Errorf("record %d: could not encode, err=%w", i, err)
		}
	}
}
