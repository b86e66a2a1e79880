// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package redact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// rulesDocument is the wire form of a rules file.
type rulesDocument struct {
	Rules []ruleBlock `hcl:"rule,block"`
}

type ruleBlock struct {
	Field    string `hcl:"field,label"`
	Strategy string `hcl:"strategy,optional"`
	Replace  string `hcl:"replace,optional"`
	Keep     int    `hcl:"keep,optional"`
	Match    string `hcl:"match,optional"`
}

// LoadRules reads a rules file from disk and builds the registry it
// describes. File order becomes registration order.
func LoadRules(path string) (*Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read rules file, path=%s, err=%w", path, err)
	}
	return DecodeRules(filepath.Base(path), src)
}

// DecodeRules parses rules source into a Registry. The filename selects
// the syntax the way hclsimple does: .hcl or .json.
func DecodeRules(filename string, src []byte) (*Registry, error) {
	var doc rulesDocument
	if err := hclsimple.Decode(filename, src, nil, &doc); err != nil {
		return nil, err
	}
	hclog.L().Trace("redact.DecodeRules()", "filename", filename, "rules", len(doc.Rules))

	rules := make([]*Rule, len(doc.Rules))
	for i, b := range doc.Rules {
		r, err := NewRule(RuleConfig{
			Field:    b.Field,
			Strategy: Strategy(b.Strategy),
			Replace:  b.Replace,
			Keep:     b.Keep,
			Match:    b.Match,
		})
		if err != nil {
			return nil, err
		}
		rules[i] = r
	}
	return NewRegistry(rules...)
}
