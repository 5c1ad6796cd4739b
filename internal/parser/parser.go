package parser

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the layout of field 0 once the fractional suffix is cut
const TimestampLayout = "2006-01-02T15:04:05"

// dataPrefix marks a data line: its first field is a year-prefixed timestamp
const dataPrefix = "20"

// Positional field indices of the whitespace-split line
const (
	fieldTimestamp = 0
	fieldTag       = 2

	fieldAnalyzingComplexity = 13
	fieldAnalyzingGap        = 16
	fieldAnalyzingComputeMS  = 20
	fieldAnalyzingMemoryMB   = 24

	fieldSolutionPlanes      = 3
	fieldSolutionPerPlane    = 6
	fieldSolutionInclination = 9
	fieldSolutionGap         = 12
)

// Classification describes how a single line is treated
type Classification struct {
	Data bool
	Kind EventKind
	Tag  string
}

// Classify reports whether line is a data line and which event it carries.
// It does not validate fields; Kind is EventUnknown for unrecognized tags.
func Classify(line string) Classification {
	fields := strings.Fields(line)
	if !isDataLine(fields) {
		return Classification{}
	}
	c := Classification{Data: true}
	if len(fields) > fieldTag {
		c.Tag = fields[fieldTag]
		c.Kind = KindFromTag(c.Tag)
	}
	return c
}

// Parse converts an ordered sequence of lines into a ParseResult.
//
// Lines whose first field does not start with "20" are skipped. The first
// data line fixes the time origin for the whole sequence, so a primary log
// followed by its short supplement shares one origin. Any malformed data line
// aborts the parse and no partial result is returned.
func Parse(lines []string) (*ParseResult, error) {
	res := &ParseResult{}
	var origin time.Time

	for i, line := range lines {
		fields := strings.Fields(line)
		if !isDataLine(fields) {
			continue
		}

		ts, err := parseTimestamp(fields[fieldTimestamp])
		if err != nil {
			return nil, &FieldExtractionError{Index: i, Line: line, Field: fieldTimestamp, Err: err}
		}
		if res.dataLines == 0 {
			origin = ts
			res.timeOrigin = ts
		}
		res.dataLines++
		elapsed := ts.Sub(origin).Seconds()

		if len(fields) <= fieldTag {
			return nil, &FieldExtractionError{Index: i, Line: line, Field: fieldTag}
		}

		ex := extractor{index: i, line: line, fields: fields}
		switch tag := fields[fieldTag]; tag {
		case TagAnalyzing:
			ex.kind = EventAnalyzing
			sample := AnalysisSample{
				ElapsedSeconds:     elapsed,
				ComplexityLevel:    ex.intAt(fieldAnalyzingComplexity),
				MaxContactGap:      ex.floatAt(fieldAnalyzingGap),
				ComputeTimeSeconds: ex.floatAt(fieldAnalyzingComputeMS) / 1000,
				MemoryUsageMB:      ex.floatAt(fieldAnalyzingMemoryMB),
			}
			if ex.err != nil {
				return nil, ex.err
			}
			res.analyses = append(res.analyses, sample)

		case TagDiscarded:
			res.discarded++

		case TagSolution:
			ex.kind = EventSolution
			planes := ex.intAt(fieldSolutionPlanes)
			perPlane := ex.intAt(fieldSolutionPerPlane)
			sample := SolutionSample{
				ElapsedMinutes:     elapsed / 60,
				Planes:             planes,
				SatellitesPerPlane: perPlane,
				TotalSatellites:    planes * perPlane,
				InclinationDeg:     ex.floatAt(fieldSolutionInclination),
				MaxContactGap:      ex.floatAt(fieldSolutionGap),
			}
			if ex.err != nil {
				return nil, ex.err
			}
			res.solutions = append(res.solutions, sample)

		default:
			return nil, &MalformedLogError{Index: i, Line: line, Tag: tag}
		}
	}

	return res, nil
}

func isDataLine(fields []string) bool {
	return len(fields) > 0 && strings.HasPrefix(fields[fieldTimestamp], dataPrefix)
}

func parseTimestamp(field string) (time.Time, error) {
	if dot := strings.IndexByte(field, '.'); dot >= 0 {
		field = field[:dot]
	}
	return time.Parse(TimestampLayout, field)
}

// extractor reads positional fields of one line and keeps the first failure
type extractor struct {
	index  int
	line   string
	kind   EventKind
	fields []string
	err    error
}

func (x *extractor) field(n int) (string, bool) {
	if x.err != nil {
		return "", false
	}
	if n >= len(x.fields) {
		x.err = &FieldExtractionError{Index: x.index, Line: x.line, Field: n, Kind: x.kind}
		return "", false
	}
	return x.fields[n], true
}

func (x *extractor) intAt(n int) int {
	s, ok := x.field(n)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		x.err = &FieldExtractionError{Index: x.index, Line: x.line, Field: n, Kind: x.kind, Err: err}
		return 0
	}
	return v
}

func (x *extractor) floatAt(n int) float64 {
	s, ok := x.field(n)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		x.err = &FieldExtractionError{Index: x.index, Line: x.line, Field: n, Kind: x.kind, Err: err}
		return 0
	}
	return v
}
