// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

// Package redact removes sensitive values from records on their way out
// of a process. A caller says which fields to touch; the registry says
// how. Application is all-or-nothing: directing redaction at a field no
// rule covers fails the whole record rather than leaking part of it.
package redact

import (
	"crypto/md5"
	"fmt"
	"regexp"
	"strings"
)

// DefaultReplace is the marker substituted for redacted values when a rule
// does not name its own.
const DefaultReplace = "[REDACTED]"

// Strategy selects how a rule transforms the values it covers.
type Strategy string

const (
	// StrategyReplace swaps the whole value for a fixed marker.
	StrategyReplace Strategy = "replace"
	// StrategyMask blanks the value except for its last Keep runes.
	// Values no longer than Keep are masked completely so short secrets
	// never survive whole.
	StrategyMask Strategy = "mask"
	// StrategyHash swaps the value for its md5 digest. The digest is a
	// correlation token, not a cryptographic protection.
	StrategyHash Strategy = "hash"
	// StrategyPattern rewrites only the spans a regular expression
	// matches, leaving the rest of the value readable.
	StrategyPattern Strategy = "pattern"
)

// RuleConfig carries the wire-level description of a rule into NewRule.
// Only Field is always required; each strategy reads the knobs it needs.
type RuleConfig struct {
	// Field is the record key the rule covers.
	Field string
	// Strategy defaults to StrategyReplace when empty.
	Strategy Strategy
	// Replace is the marker for replace and pattern strategies. Empty
	// means DefaultReplace.
	Replace string
	// Keep is how many trailing runes a mask leaves readable.
	Keep int
	// Match is the expression a pattern strategy rewrites.
	Match string
}

// Rule transforms the value of exactly one record field.
type Rule struct {
	Field    string
	Strategy Strategy
	Replace  string
	Keep     int

	matcher *regexp.Regexp
}

// NewRule compiles a ready-to-use rule from its config.
func NewRule(cfg RuleConfig) (*Rule, error) {
	if cfg.Field == "" {
		return nil, fmt.Errorf("rule requires a field name")
	}
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = StrategyReplace
	}
	replace := cfg.Replace
	if replace == "" {
		replace = DefaultReplace
	}

	r := &Rule{Field: cfg.Field, Strategy: strategy, Replace: replace, Keep: cfg.Keep}
	switch strategy {
	case StrategyReplace, StrategyHash:
	case StrategyMask:
		if cfg.Keep < 0 {
			return nil, fmt.Errorf("mask rule cannot keep a negative count, field=%s, keep=%d", cfg.Field, cfg.Keep)
		}
	case StrategyPattern:
		if cfg.Match == "" {
			return nil, fmt.Errorf("pattern rule requires a match expression, field=%s", cfg.Field)
		}
		matcher, err := regexp.Compile(cfg.Match)
		if err != nil {
			return nil, fmt.Errorf("could not compile match expression, field=%s, match=%s, err=%w", cfg.Field, cfg.Match, err)
		}
		r.matcher = matcher
	default:
		return nil, UnknownStrategyError{Field: cfg.Field, Strategy: strategy}
	}
	return r, nil
}

// Apply transforms one value. Rules are pure: the same input always
// produces the same output, and nothing outside the given text is read or
// written.
func (r *Rule) Apply(value string) string {
	switch r.Strategy {
	case StrategyMask:
		return mask(value, r.Keep)
	case StrategyHash:
		return fmt.Sprintf("%x", md5.Sum([]byte(value)))
	case StrategyPattern:
		return r.matcher.ReplaceAllString(value, r.Replace)
	default:
		return r.Replace
	}
}

func mask(value string, keep int) string {
	runes := []rune(value)
	if keep >= len(runes) {
		keep = 0
	}
	return strings.Repeat("*", len(runes)-keep) + string(runes[len(runes)-keep:])
}

// Registry is the closed, ordered set of rules a redaction pass may use.
// Rules apply in registration order, so an earlier rule sees values before
// a later one would. With at most one rule per field the order fixes the
// output completely and reruns are byte-identical.
type Registry struct {
	rules []*Rule
	index map[string]int
}

// NewRegistry builds a registry from rules in the order given. A field may
// be covered by at most one rule.
func NewRegistry(rules ...*Rule) (*Registry, error) {
	index := make(map[string]int, len(rules))
	kept := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		if r == nil {
			continue
		}
		if _, ok := index[r.Field]; ok {
			return nil, DuplicateRuleError{Field: r.Field}
		}
		index[r.Field] = len(kept)
		kept = append(kept, r)
	}
	return &Registry{rules: kept, index: index}, nil
}

// Rules returns the registered rules in registration order.
func (reg *Registry) Rules() []*Rule {
	rules := make([]*Rule, len(reg.rules))
	copy(rules, reg.rules)
	return rules
}

// Lookup finds the rule covering field.
func (reg *Registry) Lookup(field string) (*Rule, bool) {
	i, ok := reg.index[field]
	if !ok {
		return nil, false
	}
	return reg.rules[i], true
}

// Fields lists the covered fields in registration order.
func (reg *Registry) Fields() []string {
	fields := make([]string, len(reg.rules))
	for i, r := range reg.rules {
		fields[i] = r.Field
	}
	return fields
}

// Len reports the number of registered rules.
func (reg *Registry) Len() int {
	return len(reg.rules)
}
