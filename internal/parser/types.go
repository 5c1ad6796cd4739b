package parser

import "time"

// EventKind identifies the search event recorded on a data line
type EventKind int

const (
	EventUnknown EventKind = iota
	EventAnalyzing
	EventDiscarded
	EventSolution
)

// Event tags as they appear in the third field of a data line
const (
	TagAnalyzing = "Analyzing:"
	TagDiscarded = "Discarded:"
	TagSolution  = "SOLUTION!:"
)

// String returns the log tag for the kind
func (k EventKind) String() string {
	switch k {
	case EventAnalyzing:
		return TagAnalyzing
	case EventDiscarded:
		return TagDiscarded
	case EventSolution:
		return TagSolution
	default:
		return "unknown"
	}
}

// KindFromTag maps an event tag to its kind. Unknown tags map to EventUnknown.
func KindFromTag(tag string) EventKind {
	switch tag {
	case TagAnalyzing:
		return EventAnalyzing
	case TagDiscarded:
		return EventDiscarded
	case TagSolution:
		return EventSolution
	default:
		return EventUnknown
	}
}

// AnalysisSample is emitted for every "Analyzing:" line
type AnalysisSample struct {
	ElapsedSeconds     float64 `json:"elapsed_seconds" msgpack:"elapsed_seconds"`
	ComplexityLevel    int     `json:"complexity_level" msgpack:"complexity_level"`
	MaxContactGap      float64 `json:"max_contact_gap" msgpack:"max_contact_gap"`
	ComputeTimeSeconds float64 `json:"compute_time_seconds" msgpack:"compute_time_seconds"`
	MemoryUsageMB      float64 `json:"memory_usage_mb" msgpack:"memory_usage_mb"`
}

// SolutionSample is emitted for every "SOLUTION!:" line
type SolutionSample struct {
	ElapsedMinutes     float64 `json:"elapsed_minutes" msgpack:"elapsed_minutes"`
	Planes             int     `json:"planes" msgpack:"planes"`
	SatellitesPerPlane int     `json:"satellites_per_plane" msgpack:"satellites_per_plane"`
	TotalSatellites    int     `json:"total_satellites" msgpack:"total_satellites"`
	InclinationDeg     float64 `json:"inclination_deg" msgpack:"inclination_deg"`
	MaxContactGap      float64 `json:"max_contact_gap" msgpack:"max_contact_gap"`
}

// ParseResult holds the metric streams of one parsing pass.
// It is never mutated after Parse returns; accessors hand out copies.
type ParseResult struct {
	analyses   []AnalysisSample
	solutions  []SolutionSample
	discarded  int
	dataLines  int
	timeOrigin time.Time
}

// Analyses returns the analysis samples in input order
func (r *ParseResult) Analyses() []AnalysisSample {
	out := make([]AnalysisSample, len(r.analyses))
	copy(out, r.analyses)
	return out
}

// Solutions returns the solution samples in input order
func (r *ParseResult) Solutions() []SolutionSample {
	out := make([]SolutionSample, len(r.solutions))
	copy(out, r.solutions)
	return out
}

// DiscardedCount returns the number of "Discarded:" lines
func (r *ParseResult) DiscardedCount() int {
	return r.discarded
}

// DataLines returns the number of lines classified as data
func (r *ParseResult) DataLines() int {
	return r.dataLines
}

// TimeOrigin returns the timestamp of the first data line.
// It is the zero time when the input had no data lines.
func (r *ParseResult) TimeOrigin() time.Time {
	return r.timeOrigin
}

// Empty reports whether no data line was seen
func (r *ParseResult) Empty() bool {
	return r.dataLines == 0
}
