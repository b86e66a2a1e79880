// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

// Package envconf resolves a schema against an environment snapshot and
// hands back an immutable, fully validated Config. Validation is
// fail-fast for the process but exhaustive across fields: every violation
// is collected before Load reports the lot, so an operator fixes one
// deploy instead of replaying crash loops.
package envconf

import (
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/sahellebusch/hellebusch.io/schema"
)

// Status classifies the outcome of resolving one field.
type Status string

const (
	// StatusValid means the environment supplied a usable value.
	StatusValid Status = "valid"
	// StatusDefault means the schema default filled an absent optional.
	StatusDefault Status = "default"
	// StatusUnset means an optional field had no value and no default.
	StatusUnset Status = "unset"
	// StatusMissing means a required field had no value.
	StatusMissing Status = "missing"
	// StatusInvalid means a value failed its type or enum check.
	StatusInvalid Status = "invalid"
)

// Result pairs a schema field with its resolution outcome. Inspect returns
// results for reporting; Load derives its error set from the same walk.
type Result struct {
	Field  schema.Field
	Status Status
	// Raw is the value the field resolved to, environment or default.
	Raw string
	// Err is set when Status is StatusMissing or StatusInvalid.
	Err error

	num float64
}

// Option adjusts how the loader resolves fields.
type Option func(*loader)

type loader struct {
	env     Environment
	haveEnv bool
}

// WithEnvironment resolves fields against a snapshot instead of the live
// process environment. Take one snapshot and share it across calls when
// reporting and loading must agree.
func WithEnvironment(env Environment) Option {
	return func(l *loader) {
		l.env = env
		l.haveEnv = true
	}
}

// Inspect resolves every schema field and reports field-by-field outcomes
// in declaration order. It never fails as a whole; per-field problems ride
// along in the results.
func Inspect(s schema.Schema, opts ...Option) []Result {
	l := newLoader(opts...)
	return l.resolve(s)
}

// Load resolves the schema against the environment and returns an
// immutable Config. All violations across all fields are collected before
// Load fails, and no Config is ever returned alongside an error.
func Load(s schema.Schema, opts ...Option) (*Config, error) {
	hclog.L().Trace("envconf.Load()", "fields", s.Len())
	l := newLoader(opts...)
	results := l.resolve(s)

	var violations *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			violations = multierror.Append(violations, r.Err)
		}
	}
	if violations != nil {
		violations.ErrorFormat = violationList
		return nil, violations
	}

	values := make(map[string]Value, len(results))
	order := make([]string, 0, len(results))
	for _, r := range results {
		if r.Status == StatusUnset {
			continue
		}
		values[r.Field.Name] = Value{
			field:     r.Field,
			raw:       r.Raw,
			num:       r.num,
			defaulted: r.Status == StatusDefault,
		}
		order = append(order, r.Field.Name)
	}
	return &Config{schema: s, values: values, order: order}, nil
}

func newLoader(opts ...Option) *loader {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if !l.haveEnv {
		l.env = NewOSEnvironment()
	}
	return l
}

func (l *loader) resolve(s schema.Schema) []Result {
	results := make([]Result, 0, s.Len())
	for _, f := range s.Fields() {
		results = append(results, resolveField(f, l.env))
	}
	return results
}

// resolveField applies the presence rule (empty means unset), then the
// default, then the type check.
func resolveField(f schema.Field, env Environment) Result {
	raw, ok := env.Lookup(f.Name)
	present := ok && raw != ""

	if !present {
		if f.Required {
			return Result{Field: f, Status: StatusMissing, Err: MissingRequiredFieldError{Field: f.Name}}
		}
		if f.Default != "" {
			return checkValue(f, f.Default, StatusDefault)
		}
		return Result{Field: f, Status: StatusUnset}
	}
	return checkValue(f, raw, StatusValid)
}

func checkValue(f schema.Field, raw string, onOK Status) Result {
	switch f.Type {
	case schema.TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Result{
				Field:  f,
				Status: StatusInvalid,
				Raw:    raw,
				Err:    TypeMismatchError{Field: f.Name, Expected: string(f.Type), Actual: raw},
			}
		}
		return Result{Field: f, Status: onOK, Raw: raw, num: n}
	case schema.TypeEnum:
		for _, v := range f.Values {
			if raw == v {
				return Result{Field: f, Status: onOK, Raw: raw}
			}
		}
		return Result{
			Field:  f,
			Status: StatusInvalid,
			Raw:    raw,
			Err:    InvalidEnumValueError{Field: f.Name, Value: raw, Allowed: f.Values},
		}
	default:
		return Result{Field: f, Status: onOK, Raw: raw}
	}
}
