// Package metrics reduces parsed sample streams to the figures shown on the
// comparison charts: fleet minima, per-complexity resource use and the
// minimum fleet that meets a contact-gap threshold.
package metrics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yildizm/constellog/internal/parser"
)

// MaxComplexityLevel is the highest complexity level the search reports
const MaxComplexityLevel = 4

// ErrEmptySeries matches any *EmptySeriesError via errors.Is
var ErrEmptySeries = errors.New("empty series")

// EmptySeriesError is returned when a reduction is asked for over no samples
type EmptySeriesError struct {
	Series string
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("%s: no samples to reduce", e.Series)
}

// Is allows errors.Is(err, ErrEmptySeries)
func (e *EmptySeriesError) Is(target error) bool {
	return target == ErrEmptySeries
}

// MinTotalSatellites returns the first solution with the smallest fleet
func MinTotalSatellites(sols []parser.SolutionSample) (parser.SolutionSample, error) {
	if len(sols) == 0 {
		return parser.SolutionSample{}, &EmptySeriesError{Series: "solutions"}
	}
	best := sols[0]
	for _, s := range sols[1:] {
		if s.TotalSatellites < best.TotalSatellites {
			best = s
		}
	}
	return best, nil
}

// MinInclination returns the first solution with the lowest inclination
func MinInclination(sols []parser.SolutionSample) (parser.SolutionSample, error) {
	if len(sols) == 0 {
		return parser.SolutionSample{}, &EmptySeriesError{Series: "solutions"}
	}
	best := sols[0]
	for _, s := range sols[1:] {
		if s.InclinationDeg < best.InclinationDeg {
			best = s
		}
	}
	return best, nil
}

// MinSatellitesWithin returns the smallest fleet whose contact gap does not
// exceed thresholdMinutes. Ties keep the earliest solution.
func MinSatellitesWithin(sols []parser.SolutionSample, thresholdMinutes float64) (parser.SolutionSample, error) {
	var within []parser.SolutionSample
	for _, s := range sols {
		if s.MaxContactGap <= thresholdMinutes {
			within = append(within, s)
		}
	}
	if len(within) == 0 {
		return parser.SolutionSample{}, &EmptySeriesError{Series: fmt.Sprintf("solutions within %.1f min", thresholdMinutes)}
	}
	return MinTotalSatellites(within)
}

// Mean returns the arithmetic mean of values
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptySeriesError{Series: "values"}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// Max returns the largest of values
func Max(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptySeriesError{Series: "values"}
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m, nil
}

// LastSolutionMinutes returns the elapsed time of the last solution, which is
// where the search stopped improving.
func LastSolutionMinutes(sols []parser.SolutionSample) (float64, error) {
	if len(sols) == 0 {
		return 0, &EmptySeriesError{Series: "solutions"}
	}
	return sols[len(sols)-1].ElapsedMinutes, nil
}

// ComplexityStats aggregates the analyses run at one complexity level
type ComplexityStats struct {
	Level        int     `json:"level" msgpack:"level"`
	Samples      int     `json:"samples" msgpack:"samples"`
	ComputeHours float64 `json:"compute_hours" msgpack:"compute_hours"`
	AvgMemoryMB  float64 `json:"avg_memory_mb" msgpack:"avg_memory_mb"`
}

// Profile is the per-complexity resource breakdown of a run
type Profile struct {
	Levels            [MaxComplexityLevel + 1]ComplexityStats `json:"levels" msgpack:"levels"`
	TotalComputeHours float64                                 `json:"total_compute_hours" msgpack:"total_compute_hours"`
	MaxAvgMemoryMB    float64                                 `json:"max_avg_memory_mb" msgpack:"max_avg_memory_mb"`
}

// ComplexityProfile sums compute hours and averages memory per complexity
// level. Levels with no samples report zero memory.
func ComplexityProfile(analyses []parser.AnalysisSample) (*Profile, error) {
	if len(analyses) == 0 {
		return nil, &EmptySeriesError{Series: "analyses"}
	}

	p := &Profile{}
	var memory [MaxComplexityLevel + 1]float64
	for i := range p.Levels {
		p.Levels[i].Level = i
	}

	for _, a := range analyses {
		if a.ComplexityLevel < 0 || a.ComplexityLevel > MaxComplexityLevel {
			return nil, fmt.Errorf("complexity level %d out of range 0-%d", a.ComplexityLevel, MaxComplexityLevel)
		}
		lvl := &p.Levels[a.ComplexityLevel]
		lvl.Samples++
		lvl.ComputeHours += a.ComputeTimeSeconds / 3600
		memory[a.ComplexityLevel] += a.MemoryUsageMB
	}

	for i := range p.Levels {
		lvl := &p.Levels[i]
		if lvl.Samples > 0 {
			lvl.AvgMemoryMB = memory[i] / float64(lvl.Samples)
		}
		p.TotalComputeHours += lvl.ComputeHours
		if lvl.AvgMemoryMB > p.MaxAvgMemoryMB {
			p.MaxAvgMemoryMB = lvl.AvgMemoryMB
		}
	}

	return p, nil
}

// ThresholdPoint pairs a contact-gap threshold with the smallest fleet that
// satisfied it in the run searched for that threshold.
type ThresholdPoint struct {
	Model            string                `json:"model" msgpack:"model"`
	ThresholdMinutes float64               `json:"threshold_minutes" msgpack:"threshold_minutes"`
	MinSatellites    int                   `json:"min_satellites" msgpack:"min_satellites"`
	Solution         parser.SolutionSample `json:"solution" msgpack:"solution"`
}

// ThresholdCurve computes one point per model run, using each model's own
// threshold, and returns them ordered by threshold.
func ThresholdCurve(runs map[string][]parser.SolutionSample, thresholds map[string]float64) ([]ThresholdPoint, error) {
	points := make([]ThresholdPoint, 0, len(thresholds))
	for model, threshold := range thresholds {
		sols, ok := runs[model]
		if !ok {
			continue
		}
		best, err := MinTotalSatellites(sols)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model, err)
		}
		points = append(points, ThresholdPoint{
			Model:            model,
			ThresholdMinutes: threshold,
			MinSatellites:    best.TotalSatellites,
			Solution:         best,
		})
	}
	if len(points) == 0 {
		return nil, &EmptySeriesError{Series: "threshold runs"}
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].ThresholdMinutes == points[j].ThresholdMinutes {
			return points[i].Model < points[j].Model
		}
		return points[i].ThresholdMinutes < points[j].ThresholdMinutes
	})
	return points, nil
}
