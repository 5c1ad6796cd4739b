package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/constellog/internal/chart"
	"github.com/yildizm/constellog/internal/emoji"
	"github.com/yildizm/constellog/internal/formatter"
	"github.com/yildizm/constellog/internal/report"
)

var (
	exportFormat    string
	exportOutputDir string
	exportBundle    bool
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [place_model...]",
		Short: "Write chart datasets for the configured runs",
		Long: `Build the report and write one file per chart dataset (timeline, gap,
resources, threshold) plus the minimum-constellation table into the output
directory. Files are named <dataset>.<ext>.

Examples:
  constellog export
  constellog export --format csv --output-dir ./charts
  constellog export --format msgpack --bundle Africa_Mesh Africa_Mesh_60`,
		RunE: runExport,
	}

	addDataFlags(cmd)
	addDiscoverFlag(cmd)
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "export format: json, csv, msgpack (default from config)")
	cmd.Flags().StringVar(&exportOutputDir, "output-dir", "", "directory for exported files (default from config)")
	cmd.Flags().BoolVar(&exportBundle, "bundle", false, "also write every dataset into a single charts.<ext> file")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src := newSource(cfg)
	keys, err := resolveRunKeys(args, cfg, src)
	if err != nil {
		return err
	}

	rep, err := buildReport(commandContext(cmd), report.NewBuilder(src, cliLog), keys, reportTimeout(cmd, cfg))
	if err != nil {
		return err
	}

	set, err := chart.Build(rep, cfg.Analysis.Thresholds)
	if err != nil {
		return fmt.Errorf("failed to build charts: %w", err)
	}

	format := cfg.Output.ExportFormat
	if exportFormat != "" {
		format = exportFormat
	}
	dir := cfg.Output.OutputDir
	if exportOutputDir != "" {
		dir = exportOutputDir
	}

	written, err := writeChartSet(set, dir, format, exportBundle)
	if err != nil {
		return err
	}

	fmt.Printf("%s Exported %d files to %s\n", emoji.GetEmoji("success"), len(written), dir)
	for _, path := range written {
		cliLog.Info("wrote %s", path)
	}
	return nil
}

// writeChartSet writes each dataset and the table into dir and returns the
// paths written. With bundle set the whole set also goes into charts.<ext>.
func writeChartSet(set *chart.Set, dir, format string, bundle bool) ([]string, error) {
	ext, err := formatter.ExportExtension(format)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, fmt.Errorf("empty output directory")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name+ext)
		if err := writeOutputBytesToFile(data, path); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, ds := range set.Datasets {
		data, err := formatter.EncodeDataset(ds, format)
		if err != nil {
			return written, fmt.Errorf("failed to encode %s: %w", ds.Name, err)
		}
		if err := write(ds.Name, data); err != nil {
			return written, err
		}
	}

	data, err := formatter.EncodeTable(set.Table, format)
	if err != nil {
		return written, fmt.Errorf("failed to encode table: %w", err)
	}
	if err := write(chart.Table, data); err != nil {
		return written, err
	}

	if bundle {
		data, err := formatter.EncodeSet(set, format)
		if err != nil {
			return written, fmt.Errorf("failed to encode chart set: %w", err)
		}
		if err := write("charts", data); err != nil {
			return written, err
		}
	}

	return written, nil
}
