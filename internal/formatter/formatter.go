package formatter

import (
	"fmt"

	"github.com/yildizm/constellog/internal/report"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(rep *report.Report) ([]byte, error)
}

// New returns the formatter for an output format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "text", "":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
