// Package chart turns a report into the datasets behind the comparison
// figures. Rendering is left to whatever consumes the exported data.
package chart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yildizm/constellog/internal/metrics"
	"github.com/yildizm/constellog/internal/parser"
	"github.com/yildizm/constellog/internal/report"
)

// Dataset names
const (
	Timeline  = "timeline"
	Gap       = "gap"
	Resources = "resources"
	Threshold = "threshold"
	Table     = "table"
)

// Point is one plotted value. Group carries the plane count on solution
// charts; Y2 is the secondary axis on the resources chart.
type Point struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Y2    float64 `json:"y2,omitempty" msgpack:"y2,omitempty"`
	Group int     `json:"group,omitempty" msgpack:"group,omitempty"`
	Label string  `json:"label,omitempty" msgpack:"label,omitempty"`
}

// Series is a named run of points, usually one per run
type Series struct {
	Name   string  `json:"name" msgpack:"name"`
	Points []Point `json:"points" msgpack:"points"`
}

// Reference is a horizontal guide line
type Reference struct {
	Y     float64 `json:"y" msgpack:"y"`
	Label string  `json:"label" msgpack:"label"`
}

// Annotation is free text attached to a series
type Annotation struct {
	Series string `json:"series" msgpack:"series"`
	Text   string `json:"text" msgpack:"text"`
}

// Dataset is the data of one figure
type Dataset struct {
	Name        string       `json:"name" msgpack:"name"`
	Title       string       `json:"title" msgpack:"title"`
	XLabel      string       `json:"x_label" msgpack:"x_label"`
	YLabel      string       `json:"y_label" msgpack:"y_label"`
	Y2Label     string       `json:"y2_label,omitempty" msgpack:"y2_label,omitempty"`
	Series      []Series     `json:"series" msgpack:"series"`
	References  []Reference  `json:"references,omitempty" msgpack:"references,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" msgpack:"annotations,omitempty"`
}

// TableRow is one line of the minimum-constellation table
type TableRow struct {
	Label       string  `json:"label" msgpack:"label"`
	Place       string  `json:"place" msgpack:"place"`
	Model       string  `json:"model" msgpack:"model"`
	Satellites  int     `json:"satellites" msgpack:"satellites"`
	Planes      int     `json:"planes" msgpack:"planes"`
	Inclination float64 `json:"inclination" msgpack:"inclination"`
	MCG         float64 `json:"mcg" msgpack:"mcg"`
}

// Set bundles every dataset built from one report
type Set struct {
	ReportID string     `json:"report_id" msgpack:"report_id"`
	Datasets []*Dataset `json:"datasets" msgpack:"datasets"`
	Table    []TableRow `json:"table" msgpack:"table"`
}

// Dataset returns the dataset called name, or nil
func (s *Set) Dataset(name string) *Dataset {
	for _, ds := range s.Datasets {
		if ds.Name == name {
			return ds
		}
	}
	return nil
}

// Build computes all datasets. thresholds maps a model to the contact-gap
// limit it was searched with.
func Build(rep *report.Report, thresholds map[string]float64) (*Set, error) {
	threshold, err := thresholdDataset(rep, thresholds)
	if err != nil {
		return nil, err
	}

	return &Set{
		ReportID: rep.ID,
		Datasets: []*Dataset{
			timelineDataset(rep),
			gapDataset(rep, thresholds),
			resourcesDataset(rep),
			threshold,
		},
		Table: tableRows(rep),
	}, nil
}

func timelineDataset(rep *report.Report) *Dataset {
	ds := &Dataset{
		Name:   Timeline,
		Title:  "Solutions over computation time",
		XLabel: "Computation time stamp [min]",
		YLabel: "Total satellites in constellation [#]",
	}
	for _, run := range rep.Runs {
		sols := run.Solutions()
		series := Series{Name: run.Title, Points: make([]Point, 0, len(sols))}
		for _, s := range sols {
			series.Points = append(series.Points, Point{
				X:     s.ElapsedMinutes,
				Y:     float64(s.TotalSatellites),
				Group: s.Planes,
				Label: fmt.Sprintf("p:%d i:%.1f\nmcg:%.1f", s.Planes, s.InclinationDeg, s.MaxContactGap),
			})
		}
		ds.Series = append(ds.Series, series)
	}
	return ds
}

func gapDataset(rep *report.Report, thresholds map[string]float64) *Dataset {
	ds := &Dataset{
		Name:       Gap,
		Title:      "Maximum contact gap by constellation size",
		XLabel:     "Total satellites in constellation [#]",
		YLabel:     "Maximum Contact Gap [min]",
		References: references(thresholds),
	}

	for _, run := range rep.Runs {
		sols := run.Solutions()
		series := Series{Name: run.Title, Points: make([]Point, 0, len(sols))}
		for _, s := range sols {
			series.Points = append(series.Points, Point{
				X:     float64(s.TotalSatellites),
				Y:     s.MaxContactGap,
				Group: s.Planes,
				Label: fmt.Sprintf("i:%.1f", s.InclinationDeg),
			})
		}
		ds.Series = append(ds.Series, series)

		for _, ref := range ds.References {
			best, err := metrics.MinSatellitesWithin(sols, ref.Y)
			if err != nil {
				continue
			}
			ds.Annotations = append(ds.Annotations, Annotation{
				Series: run.Title,
				Text:   fmt.Sprintf("<= %.0f min: %d sats", ref.Y, best.TotalSatellites),
			})
		}
	}
	return ds
}

// references returns one guide line per distinct threshold, ascending
func references(thresholds map[string]float64) []Reference {
	byValue := make(map[float64][]string)
	for model, minutes := range thresholds {
		byValue[minutes] = append(byValue[minutes], model)
	}

	refs := make([]Reference, 0, len(byValue))
	for minutes, models := range byValue {
		sort.Strings(models)
		label := models[0]
		for _, m := range models[1:] {
			label += ", " + m
		}
		refs = append(refs, Reference{Y: minutes, Label: label})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Y < refs[j].Y })
	return refs
}

func resourcesDataset(rep *report.Report) *Dataset {
	ds := &Dataset{
		Name:    Resources,
		Title:   "Resource usage by complexity level",
		XLabel:  "Complexity level",
		YLabel:  "Compute time [hrs]",
		Y2Label: "Average memory [MB]",
	}
	for _, run := range rep.Runs {
		if run.Profile == nil {
			continue
		}
		series := Series{Name: run.Title}
		for _, lvl := range run.Profile.Levels {
			series.Points = append(series.Points, Point{
				X:  float64(lvl.Level),
				Y:  lvl.ComputeHours,
				Y2: lvl.AvgMemoryMB,
			})
		}
		ds.Series = append(ds.Series, series)
		ds.Annotations = append(ds.Annotations,
			Annotation{Series: run.Title, Text: fmt.Sprintf("Total compute time: %.1fhrs", run.Profile.TotalComputeHours)},
			Annotation{Series: run.Title, Text: fmt.Sprintf("Max memory usage: %.1fMB", run.Profile.MaxAvgMemoryMB)},
		)
	}
	return ds
}

func thresholdDataset(rep *report.Report, thresholds map[string]float64) (*Dataset, error) {
	ds := &Dataset{
		Name:   Threshold,
		Title:  "Minimum fleet by contact-gap threshold",
		XLabel: "Maximum contact gap threshold [min]",
		YLabel: "Minimum satellites [#]",
	}

	for _, place := range rep.Places() {
		runs := make(map[string][]parser.SolutionSample)
		for model, sols := range rep.SolutionsByModel(place) {
			if len(sols) > 0 {
				runs[model] = sols
			}
		}

		points, err := metrics.ThresholdCurve(runs, thresholds)
		if errors.Is(err, metrics.ErrEmptySeries) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("threshold curve for %s: %w", place, err)
		}

		series := Series{Name: place, Points: make([]Point, 0, len(points))}
		for _, p := range points {
			series.Points = append(series.Points, Point{
				X:     p.ThresholdMinutes,
				Y:     float64(p.MinSatellites),
				Group: p.Solution.Planes,
				Label: p.Model,
			})
		}
		ds.Series = append(ds.Series, series)
	}
	return ds, nil
}

func tableRows(rep *report.Report) []TableRow {
	var rows []TableRow
	for _, run := range rep.Runs {
		if run.MinSatellites != nil {
			rows = append(rows, row(run, "min sats.", *run.MinSatellites))
		}
		if run.MinInclination != nil {
			rows = append(rows, row(run, "min incl.", *run.MinInclination))
		}
	}
	return rows
}

func row(run *report.RunSummary, kind string, s parser.SolutionSample) TableRow {
	return TableRow{
		Label:       fmt.Sprintf("%s (%s)", run.Key.Place, kind),
		Place:       run.Key.Place,
		Model:       run.Key.Model,
		Satellites:  s.TotalSatellites,
		Planes:      s.Planes,
		Inclination: s.InclinationDeg,
		MCG:         s.MaxContactGap,
	}
}
