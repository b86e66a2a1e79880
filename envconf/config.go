// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package envconf

import (
	"github.com/sahellebusch/hellebusch.io/schema"
)

// Value is one validated configuration value bound to its field.
type Value struct {
	field     schema.Field
	raw       string
	num       float64
	defaulted bool
}

// Field returns the schema field the value satisfies.
func (v Value) Field() schema.Field {
	return v.field
}

// String returns the value verbatim.
func (v Value) String() string {
	return v.raw
}

// Number returns the parsed numeric value. Only meaningful when the
// field's type is number.
func (v Value) Number() float64 {
	return v.num
}

// Defaulted reports whether the value came from the schema default rather
// than the environment.
func (v Value) Defaulted() bool {
	return v.defaulted
}

// Config is the immutable result of a successful Load. Accessors never
// mutate it, and the maps and slices it hands out never alias internal
// state, so nothing a caller does can change what another caller reads.
type Config struct {
	schema schema.Schema
	values map[string]Value
	order  []string
}

// Has reports whether the named field holds a validated value. Optional
// fields that were absent answer false; every field that survived Load
// with a value answers true, zero values included.
func (c *Config) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Get returns the validated value for name. Fields the schema never
// declared and optional fields that were absent both come back as
// UnknownOrUnsetFieldError.
func (c *Config) Get(name string) (Value, error) {
	v, ok := c.values[name]
	if !ok {
		return Value{}, UnknownOrUnsetFieldError{Field: name}
	}
	return v, nil
}

// String returns the named field's value as text. Any held field reads as
// a string.
func (c *Config) String(name string) (string, error) {
	v, err := c.Get(name)
	if err != nil {
		return "", err
	}
	return v.raw, nil
}

// Number returns the named field's numeric value. Reading a non-number
// field as a number is a TypeMismatchError.
func (c *Config) Number(name string) (float64, error) {
	v, err := c.Get(name)
	if err != nil {
		return 0, err
	}
	if v.field.Type != schema.TypeNumber {
		return 0, TypeMismatchError{Field: name, Expected: string(schema.TypeNumber), Actual: string(v.field.Type)}
	}
	return v.num, nil
}

// Enum returns the named field's value after confirming the field is an
// enum.
func (c *Config) Enum(name string) (string, error) {
	v, err := c.Get(name)
	if err != nil {
		return "", err
	}
	if v.field.Type != schema.TypeEnum {
		return "", TypeMismatchError{Field: name, Expected: string(schema.TypeEnum), Actual: string(v.field.Type)}
	}
	return v.raw, nil
}

// Names lists the fields holding values, in schema declaration order.
func (c *Config) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Len reports how many fields hold values.
func (c *Config) Len() int {
	return len(c.values)
}

// StringMap copies the held values into a plain map, ready for struct
// binding or redaction.
func (c *Config) StringMap() map[string]string {
	m := make(map[string]string, len(c.values))
	for name, v := range c.values {
		m[name] = v.raw
	}
	return m
}

// Schema returns the schema the config was validated against.
func (c *Config) Schema() schema.Schema {
	return c.schema
}
