// SPDX-License-Identifier: MIT

package telemetry

import (
	"fmt"

	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// Hostname returns the name of the machine the process runs on.
func Hostname() (string, error) {
	info, err := host.Info()
	if err != nil {
		return "", fmt.Errorf("telemetry: host info: %w", err)
	}

	return info.Hostname, nil
}

// SystemMemory returns the total and available physical memory in bytes.
func SystemMemory() (total, available uint64, err error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, fmt.Errorf("telemetry: virtual memory: %w", err)
	}

	return vm.Total, vm.Available, nil
}

// MiB converts bytes to mebibytes.
func MiB(b uint64) float64 { return float64(b) / (1 << 20) }
