// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package report

import (
	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/host"
)

// HostFacts is the subset of machine facts worth attaching to a config
// report.
type HostFacts struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	KernelArch      string `json:"kernelArch"`
	Uptime          uint64 `json:"uptime"`
	Procs           uint64 `json:"procs"`
}

func hostFacts() (*HostFacts, error) {
	hi, err := host.Info()
	if err != nil {
		hclog.L().Trace("report.hostFacts()", "error", err)
		return nil, err
	}
	return &HostFacts{
		Hostname:        hi.Hostname,
		OS:              hi.OS,
		Platform:        hi.Platform,
		PlatformVersion: hi.PlatformVersion,
		KernelArch:      hi.KernelArch,
		Uptime:          hi.Uptime,
		Procs:           hi.Procs,
	}, nil
}
