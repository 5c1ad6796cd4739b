// Package report builds per-run summaries of a set of search logs.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/constellog/internal/logger"
	"github.com/yildizm/constellog/internal/metrics"
	"github.com/yildizm/constellog/internal/parser"
	"github.com/yildizm/constellog/internal/source"
)

// RunSummary is everything the charts and tables need about one run
type RunSummary struct {
	Key     source.RunKey `json:"key"`
	Title   string        `json:"title"`
	Files   []string      `json:"files"`
	Result  *parser.ParseResult `json:"-"`
	Profile *metrics.Profile    `json:"profile,omitempty"`

	AnalysisCount  int `json:"analysis_count"`
	SolutionCount  int `json:"solution_count"`
	DiscardedCount int `json:"discarded_count"`

	// nil when the run produced no solution
	MinSatellites  *parser.SolutionSample `json:"min_satellites,omitempty"`
	MinInclination *parser.SolutionSample `json:"min_inclination,omitempty"`

	// time of the last solution, in minutes since the first data line
	ElapsedMinutes float64 `json:"elapsed_minutes"`
}

// Solutions is shorthand for the run's solution samples
func (r *RunSummary) Solutions() []parser.SolutionSample {
	return r.Result.Solutions()
}

// Analyses is shorthand for the run's analysis samples
func (r *RunSummary) Analyses() []parser.AnalysisSample {
	return r.Result.Analyses()
}

// Report groups the summaries of one invocation
type Report struct {
	ID          string        `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Runs        []*RunSummary `json:"runs"`
}

// Run returns the summary for key, or nil
func (r *Report) Run(key source.RunKey) *RunSummary {
	for _, run := range r.Runs {
		if run.Key == key {
			return run
		}
	}
	return nil
}

// Places returns the distinct places in run order
func (r *Report) Places() []string {
	seen := make(map[string]bool)
	var places []string
	for _, run := range r.Runs {
		if !seen[run.Key.Place] {
			seen[run.Key.Place] = true
			places = append(places, run.Key.Place)
		}
	}
	return places
}

// Builder parses runs from a source into a report
type Builder struct {
	source *source.Source
	log    *logger.Logger
	now    func() time.Time
}

// NewBuilder creates a builder reading from src
func NewBuilder(src *source.Source, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{
		source: src,
		log:    log.WithComponent("report"),
		now:    time.Now,
	}
}

// Build parses every run in order. The first failing run aborts the build;
// ctx is checked between runs.
func (b *Builder) Build(ctx context.Context, keys []source.RunKey) (*Report, error) {
	rep := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: b.now(),
		Runs:        make([]*RunSummary, 0, len(keys)),
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("report cancelled before %s: %w", key, err)
		}

		start := time.Now()
		res, err := b.source.Parse(key)
		if err != nil {
			return nil, err
		}

		summary, err := Summarize(key, res)
		if err != nil {
			return nil, err
		}
		summary.Files = b.source.Paths(key)

		b.log.InfoWithFields("parsed run", []logger.Field{
			logger.Run(key.String()),
			logger.F("analyses", summary.AnalysisCount),
			logger.F("solutions", summary.SolutionCount),
			logger.F("discarded", summary.DiscardedCount),
			logger.Duration(time.Since(start)),
		})
		if summary.SolutionCount == 0 {
			b.log.Warn("run %s has no solutions", key)
		}

		rep.Runs = append(rep.Runs, summary)
	}

	return rep, nil
}

// Summarize reduces a parse result. Runs without solutions or analyses keep
// nil minima and profile instead of failing.
func Summarize(key source.RunKey, res *parser.ParseResult) (*RunSummary, error) {
	sols := res.Solutions()
	summary := &RunSummary{
		Key:            key,
		Title:          key.Title(),
		Result:         res,
		AnalysisCount:  len(res.Analyses()),
		SolutionCount:  len(sols),
		DiscardedCount: res.DiscardedCount(),
	}

	if len(sols) > 0 {
		minSats, err := metrics.MinTotalSatellites(sols)
		if err != nil {
			return nil, err
		}
		minIncl, err := metrics.MinInclination(sols)
		if err != nil {
			return nil, err
		}
		last, err := metrics.LastSolutionMinutes(sols)
		if err != nil {
			return nil, err
		}
		summary.MinSatellites = &minSats
		summary.MinInclination = &minIncl
		summary.ElapsedMinutes = last
	}

	profile, err := metrics.ComplexityProfile(res.Analyses())
	switch {
	case errors.Is(err, metrics.ErrEmptySeries):
	case err != nil:
		return nil, fmt.Errorf("run %s: %w", key, err)
	default:
		summary.Profile = profile
	}

	return summary, nil
}

// SolutionsByModel collects the solutions of every run at place, keyed by model
func (r *Report) SolutionsByModel(place string) map[string][]parser.SolutionSample {
	out := make(map[string][]parser.SolutionSample)
	for _, run := range r.Runs {
		if run.Key.Place == place {
			out[run.Key.Model] = run.Solutions()
		}
	}
	return out
}
