// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package envconf

import (
	"fmt"
	"strings"
)

// Validation failures are typed so callers can match them with errors.As;
// the aggregate renders them as a flat list.

var _ error = MissingRequiredFieldError{}

// MissingRequiredFieldError reports a required field with no usable value
// in the environment. Empty values count as missing.
type MissingRequiredFieldError struct {
	Field string
}

func (e MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field, field=%s", e.Field)
}

var _ error = TypeMismatchError{}

// TypeMismatchError reports a value that does not parse as the field's
// declared type, or a typed accessor used against a field of another type.
type TypeMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch, field=%s, expected=%s, actual=%q", e.Field, e.Expected, e.Actual)
}

var _ error = InvalidEnumValueError{}

// InvalidEnumValueError reports an enum field holding a value outside its
// declared set.
type InvalidEnumValueError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid enum value, field=%s, value=%q, allowed=%s", e.Field, e.Value, strings.Join(e.Allowed, "|"))
}

var _ error = UnknownOrUnsetFieldError{}

// UnknownOrUnsetFieldError reports access to a field the config does not
// hold, either because the schema never declared it or because it was
// optional and absent from the environment.
type UnknownOrUnsetFieldError struct {
	Field string
}

func (e UnknownOrUnsetFieldError) Error() string {
	return fmt.Sprintf("unknown or unset field, field=%s", e.Field)
}

// violationList renders every collected violation as one flat list.
func violationList(es []error) string {
	if len(es) == 1 {
		return fmt.Sprintf("1 environment violation:\n\t* %s", es[0])
	}
	points := make([]string, len(es))
	for i, err := range es {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d environment violations:\n\t%s", len(es), strings.Join(points, "\n\t"))
}
