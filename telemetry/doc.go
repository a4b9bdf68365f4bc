// Package telemetry gathers the run facts the harness reports: which host a
// rank runs on, how much memory the process holds at its peak and how long
// each phase took.
package telemetry
