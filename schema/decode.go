// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"
)

// document is the wire form of a schema file. The same struct decodes both
// syntaxes; YAML uses a list so field order survives the round trip.
type document struct {
	Fields []fieldBlock `hcl:"field,block" yaml:"fields"`
}

type fieldBlock struct {
	Name      string   `hcl:"name,label" yaml:"name"`
	Type      string   `hcl:"type" yaml:"type"`
	Required  bool     `hcl:"required,optional" yaml:"required"`
	Values    []string `hcl:"values,optional" yaml:"values"`
	Default   string   `hcl:"default,optional" yaml:"default"`
	Sensitive bool     `hcl:"sensitive,optional" yaml:"sensitive"`
	Desc      string   `hcl:"desc,optional" yaml:"desc"`
}

// Load reads a schema file from disk and decodes it into a checked Schema.
func Load(path string) (Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("could not read schema file, path=%s, err=%w", path, err)
	}
	return Decode(filepath.Base(path), src)
}

// Decode parses schema source. The filename's extension selects the
// syntax: .hcl and .json decode as HCL, .yaml and .yml as YAML.
func Decode(filename string, src []byte) (Schema, error) {
	var doc document
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".hcl", ".json":
		if err := hclsimple.Decode(filename, src, nil, &doc); err != nil {
			return Schema{}, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(src, &doc); err != nil {
			return Schema{}, fmt.Errorf("could not decode schema yaml, filename=%s, err=%w", filename, err)
		}
	default:
		return Schema{}, fmt.Errorf("unsupported schema format, filename=%s, extension=%q", filename, ext)
	}
	hclog.L().Trace("schema.Decode()", "filename", filename, "fields", len(doc.Fields))
	return New(mapFields(doc.Fields)...)
}

func mapFields(blocks []fieldBlock) []Field {
	fields := make([]Field, len(blocks))
	for i, b := range blocks {
		fields[i] = Field{
			Name:      b.Name,
			Type:      Type(b.Type),
			Required:  b.Required,
			Values:    b.Values,
			Default:   b.Default,
			Sensitive: b.Sensitive,
			Desc:      b.Desc,
		}
	}
	return fields
}
