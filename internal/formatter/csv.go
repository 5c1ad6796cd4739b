package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/constellog/internal/report"
)

// csvFormatter writes every solution of every run as one CSV row
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

var solutionHeaders = []string{
	"Place",
	"Model",
	"Elapsed Minutes",
	"Planes",
	"Satellites Per Plane",
	"Total Satellites",
	"Inclination",
	"Max Contact Gap",
}

func (f *csvFormatter) Format(rep *report.Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(solutionHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range rep.Runs {
		for _, s := range run.Solutions() {
			record := []string{
				run.Key.Place,
				run.Key.Model,
				formatFloat(s.ElapsedMinutes),
				strconv.Itoa(s.Planes),
				strconv.Itoa(s.SatellitesPerPlane),
				strconv.Itoa(s.TotalSatellites),
				formatFloat(s.InclinationDeg),
				formatFloat(s.MaxContactGap),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// formatFloat writes the shortest representation that round-trips
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
