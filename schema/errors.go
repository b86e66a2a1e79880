// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package schema

import (
	"fmt"
	"strings"
)

// Structural schema problems are typed so callers can match them with
// errors.As. Fields are exported because the whole point is telling the
// author which field to fix.

var _ error = NamelessFieldError{}

// NamelessFieldError reports a field declared without a name.
type NamelessFieldError struct {
	Position int
}

func (e NamelessFieldError) Error() string {
	return fmt.Sprintf("schema field requires a name, position=%d", e.Position)
}

var _ error = DuplicateFieldError{}

// DuplicateFieldError reports a field name declared more than once.
type DuplicateFieldError struct {
	Field string
}

func (e DuplicateFieldError) Error() string {
	return fmt.Sprintf("schema field names must be unique, field=%s", e.Field)
}

var _ error = UnknownTypeError{}

// UnknownTypeError reports a field whose type is not string, number, or
// enum.
type UnknownTypeError struct {
	Field string
	Type  Type
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown field type, field=%s, type=%q", e.Field, string(e.Type))
}

var _ error = EmptyEnumError{}

// EmptyEnumError reports an enum field declared with no values.
type EmptyEnumError struct {
	Field string
}

func (e EmptyEnumError) Error() string {
	return fmt.Sprintf("enum fields require at least one value, field=%s", e.Field)
}

var _ error = StrayValuesError{}

// StrayValuesError reports values declared on a non-enum field.
type StrayValuesError struct {
	Field string
	Type  Type
}

func (e StrayValuesError) Error() string {
	return fmt.Sprintf("values are only allowed on enum fields, field=%s, type=%s", e.Field, e.Type)
}

var _ error = BadDefaultError{}

// BadDefaultError reports a default that contradicts its field.
type BadDefaultError struct {
	Field   string
	Default string
	Reason  string
}

func (e BadDefaultError) Error() string {
	return fmt.Sprintf("invalid default, field=%s, default=%q, reason=%s", e.Field, e.Default, e.Reason)
}

func problemList(es []error) string {
	if len(es) == 1 {
		return fmt.Sprintf("schema has 1 problem:\n\t* %s", es[0])
	}
	points := make([]string, len(es))
	for i, err := range es {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("schema has %d problems:\n\t%s", len(es), strings.Join(points, "\n\t"))
}
