// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
)

// OutWriter provides a unified interface for all output operations.
// Every method honors cfg.Output and writes to cfg.OutputFile, or stdout when it is empty.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a scored assessment using the configured output format.
func (ow *OutWriter) WriteReport(report schema.AssessmentReport, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteReport(w, report, cfg, duration)
	}, "Wrote assessment report")
}

// WriteHistory prints an organization/site timeline using the configured output format.
func (ow *OutWriter) WriteHistory(result schema.HistoryResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHistory(w, result, cfg)
	}, "Wrote history")
}

// WriteDrivers prints the active driver catalog using the configured output format.
func (ow *OutWriter) WriteDrivers(defs []schema.DriverDefinition, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteDrivers(w, defs, cfg)
	}, "Wrote driver catalog")
}

// WriteCheck prints a threshold check result using the configured output format.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCheck(w, result, cfg, duration)
	}, "Wrote check result")
}
