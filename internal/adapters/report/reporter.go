package report

import (
	"io"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports"
)

// Reporter prints the run summary and, when summaryFile is set, persists it as YAML.
type Reporter struct {
	printer     *Printer
	summaryFile string
}

var _ ports.RunReporter = (*Reporter)(nil)

// NewReporter creates a Reporter printing to w.
func NewReporter(w io.Writer, summaryFile string) *Reporter {
	return &Reporter{printer: NewPrinter(w), summaryFile: summaryFile}
}

// Report implements ports.RunReporter.
func (r *Reporter) Report(summary *domain.RunSummary) error {
	if r.summaryFile != "" {
		if err := WriteSummary(r.summaryFile, summary); err != nil {
			return err
		}
	}
	return r.printer.Print(summary)
}
