// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

// Package schema describes an application's environment contract: which
// variables exist, their types, and which ones a process cannot start
// without. A Schema is built once, checked for structural problems, and
// then drives validation, reporting, and redaction downstream.
package schema

import (
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// Type names the shape a field's value must take.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeEnum   Type = "enum"
)

// Field declares a single environment variable.
type Field struct {
	// Name is the environment variable the field binds to.
	Name string
	// Type selects how raw values are checked.
	Type Type
	// Required fields must resolve to a value or loading fails.
	Required bool
	// Values enumerates the permitted values. Only enum fields take them.
	Values []string
	// Default is applied when an optional field is absent. Empty means no
	// default, consistent with empty environment values counting as unset.
	Default string
	// Sensitive marks values that must never appear in rendered output.
	Sensitive bool
	// Desc is an optional human description shown in summaries.
	Desc string
}

// Schema is an ordered, validated collection of fields. Declaration order
// is preserved and becomes the order of every downstream walk.
type Schema struct {
	fields []Field
	index  map[string]int
}

// New assembles a Schema from field definitions. Structural problems are
// collected across all fields before New fails, so authors fix a schema in
// one pass rather than one error at a time.
func New(fields ...Field) (Schema, error) {
	var problems *multierror.Error
	index := make(map[string]int, len(fields))
	kept := make([]Field, 0, len(fields))

	for i, f := range fields {
		if f.Name == "" {
			problems = multierror.Append(problems, NamelessFieldError{Position: i})
			continue
		}
		if _, ok := index[f.Name]; ok {
			problems = multierror.Append(problems, DuplicateFieldError{Field: f.Name})
			continue
		}
		if err := checkField(f); err != nil {
			problems = multierror.Append(problems, err)
		}
		index[f.Name] = len(kept)
		kept = append(kept, f)
	}

	if problems != nil {
		problems.ErrorFormat = problemList
		return Schema{}, problems
	}
	return Schema{fields: kept, index: index}, nil
}

// Fields returns the schema's fields in declaration order.
func (s Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// Names returns the declared field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a field by name.
func (s Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Len reports the number of declared fields.
func (s Schema) Len() int {
	return len(s.fields)
}

func checkField(f Field) error {
	switch f.Type {
	case TypeString, TypeNumber:
		if len(f.Values) > 0 {
			return StrayValuesError{Field: f.Name, Type: f.Type}
		}
	case TypeEnum:
		if len(f.Values) == 0 {
			return EmptyEnumError{Field: f.Name}
		}
	default:
		return UnknownTypeError{Field: f.Name, Type: f.Type}
	}
	return checkDefault(f)
}

func checkDefault(f Field) error {
	if f.Default == "" {
		return nil
	}
	if f.Required {
		return BadDefaultError{Field: f.Name, Default: f.Default, Reason: "required fields cannot take a default"}
	}
	switch f.Type {
	case TypeNumber:
		if _, err := strconv.ParseFloat(f.Default, 64); err != nil {
			return BadDefaultError{Field: f.Name, Default: f.Default, Reason: "not a number"}
		}
	case TypeEnum:
		for _, v := range f.Values {
			if f.Default == v {
				return nil
			}
		}
		return BadDefaultError{Field: f.Name, Default: f.Default, Reason: "not among the enum values"}
	}
	return nil
}
