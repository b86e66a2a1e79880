// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

// Package report renders a validated configuration as a document safe to
// attach to a bug report or support ticket. Sensitive values pass through
// the redaction engine before anything is rendered, so sharing a report
// never exposes customer info.
package report

import (
	"fmt"
	"time"

	"github.com/sahellebusch/hellebusch.io/envconf"
	"github.com/sahellebusch/hellebusch.io/redact"
	"github.com/sahellebusch/hellebusch.io/schema"
	"github.com/sahellebusch/hellebusch.io/version"
)

// FieldEntry is one schema field's outcome, safe to render.
type FieldEntry struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Value     string `json:"value,omitempty"`
	Sensitive bool   `json:"sensitive,omitempty"`
	Desc      string `json:"desc,omitempty"`
}

// Report is the rendered document.
type Report struct {
	Tool      string       `json:"tool"`
	Version   string       `json:"version"`
	Timestamp time.Time    `json:"timestamp"`
	Host      *HostFacts   `json:"host,omitempty"`
	Fields    []FieldEntry `json:"fields"`
}

// Option adjusts what a report includes.
type Option func(*builder)

type builder struct {
	hostFacts bool
}

// WithHostFacts includes facts about the machine in the report.
func WithHostFacts() Option {
	return func(b *builder) {
		b.hostFacts = true
	}
}

// New renders cfg against its schema, fields in declaration order.
// Sensitive fields go through the rule engine before anything lands in the
// report; the config itself is never modified.
func New(s schema.Schema, cfg *envconf.Config, opts ...Option) (Report, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	values, err := redactSensitive(s, cfg)
	if err != nil {
		return Report{}, err
	}

	fields := make([]FieldEntry, 0, s.Len())
	for _, f := range s.Fields() {
		entry := FieldEntry{
			Name:      f.Name,
			Type:      string(f.Type),
			Sensitive: f.Sensitive,
			Desc:      f.Desc,
		}
		if v, err := cfg.Get(f.Name); err == nil {
			entry.Status = "set"
			if v.Defaulted() {
				entry.Status = "default"
			}
			entry.Value = values[f.Name]
		} else {
			entry.Status = "unset"
		}
		fields = append(fields, entry)
	}

	rep := Report{
		Tool:      "envguard",
		Version:   version.GetVersion().SemanticVersion(),
		Timestamp: time.Now().UTC(),
		Fields:    fields,
	}

	if b.hostFacts {
		facts, err := hostFacts()
		if err != nil {
			return Report{}, fmt.Errorf("could not gather host facts, err=%w", err)
		}
		rep.Host = facts
	}
	return rep, nil
}

// redactSensitive derives the redaction directions from the schema's
// sensitive flags and runs the values through the engine. The derivation
// happens here, at the call boundary: the schema says what is sensitive,
// the engine is only ever told which fields to hide.
func redactSensitive(s schema.Schema, cfg *envconf.Config) (redact.Record, error) {
	spec := redact.Spec{}
	rules := make([]*redact.Rule, 0)
	for _, f := range s.Fields() {
		if !f.Sensitive {
			continue
		}
		spec[f.Name] = true
		r, err := redact.NewRule(redact.RuleConfig{Field: f.Name})
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	reg, err := redact.NewRegistry(rules...)
	if err != nil {
		return nil, err
	}
	return redact.Apply(redact.Record(cfg.StringMap()), spec, reg)
}
