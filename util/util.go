// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package util

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// WriteJSON converts an interface{} to JSON then writes to filePath.
func WriteJSON(iface interface{}, filePath string) error {
	jsonBts, err := InterfaceToJSON(iface)
	if err != nil {
		return err
	}
	err = JSONToFile(jsonBts, filePath)
	if err != nil {
		return err
	}
	return nil
}

// InterfaceToJSON converts an interface{} to indented JSON.
func InterfaceToJSON(mapVar interface{}) ([]byte, error) {
	bts, err := json.MarshalIndent(mapVar, "", "    ")
	if err != nil {
		hclog.L().Error("util.InterfaceToJSON", "message", err)
		return bts, err
	}
	return bts, nil
}

// JSONToFile accepts JSON and an output file path to create a JSON file.
func JSONToFile(JSON []byte, outFile string) error {
	err := os.WriteFile(outFile, JSON, 0644)
	if err != nil {
		hclog.L().Error("util.JSONToFile", "error writing json to file", err)
	}
	return err
}

// ReadEnvFile reads KEY=VALUE lines from path. Blank lines and lines
// starting with # are skipped; everything else passes through verbatim for
// an environment snapshot to parse.
func ReadEnvFile(path string) ([]string, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pairs []string
	for _, line := range strings.Split(string(bts), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pairs = append(pairs, line)
	}
	return pairs, nil
}
