package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yildizm/constellog/internal/chart"
)

// Export formats for chart datasets
const (
	ExportJSON    = "json"
	ExportCSV     = "csv"
	ExportMsgpack = "msgpack"
)

// ExportExtension returns the file extension for an export format
func ExportExtension(format string) (string, error) {
	switch format {
	case ExportJSON:
		return ".json", nil
	case ExportCSV:
		return ".csv", nil
	case ExportMsgpack:
		return ".msgpack", nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

var datasetHeaders = []string{"dataset", "series", "x", "y", "y2", "group", "label"}

var tableHeaders = []string{"label", "place", "model", "satellites", "planes", "inclination", "mcg"}

// EncodeSet encodes a whole chart set. CSV output is the long format of
// every dataset; the table is only carried by json and msgpack.
func EncodeSet(set *chart.Set, format string) ([]byte, error) {
	switch format {
	case ExportJSON:
		return json.MarshalIndent(set, "", "  ")
	case ExportMsgpack:
		return encodeMsgpack(set)
	case ExportCSV:
		return writeCSV(datasetHeaders, func(w *csv.Writer) error {
			for _, ds := range set.Datasets {
				if err := writeDatasetRows(w, ds); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// EncodeDataset encodes a single dataset
func EncodeDataset(ds *chart.Dataset, format string) ([]byte, error) {
	switch format {
	case ExportJSON:
		return json.MarshalIndent(ds, "", "  ")
	case ExportMsgpack:
		return encodeMsgpack(ds)
	case ExportCSV:
		return writeCSV(datasetHeaders, func(w *csv.Writer) error {
			return writeDatasetRows(w, ds)
		})
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// EncodeTable encodes the minimum-constellation table
func EncodeTable(rows []chart.TableRow, format string) ([]byte, error) {
	switch format {
	case ExportJSON:
		if rows == nil {
			rows = []chart.TableRow{}
		}
		return json.MarshalIndent(rows, "", "  ")
	case ExportMsgpack:
		return encodeMsgpack(rows)
	case ExportCSV:
		return writeCSV(tableHeaders, func(w *csv.Writer) error {
			for _, r := range rows {
				record := []string{
					r.Label,
					r.Place,
					r.Model,
					strconv.Itoa(r.Satellites),
					strconv.Itoa(r.Planes),
					formatFloat(r.Inclination),
					strconv.FormatFloat(r.MCG, 'f', 1, 64),
				}
				if err := w.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
			return nil
		})
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func encodeMsgpack(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode msgpack: %w", err)
	}
	return data, nil
}

func writeDatasetRows(w *csv.Writer, ds *chart.Dataset) error {
	for _, series := range ds.Series {
		for _, p := range series.Points {
			record := []string{
				ds.Name,
				series.Name,
				formatFloat(p.X),
				formatFloat(p.Y),
				formatFloat(p.Y2),
				strconv.Itoa(p.Group),
				escapeCSVString(p.Label),
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}
	return nil
}

func writeCSV(headers []string, rows func(*csv.Writer) error) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := rows(writer); err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return b.Bytes(), nil
}

// escapeCSVString keeps multi-line labels on one row
func escapeCSVString(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
