package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	header    = "Starting analysis at 2023-03-01T10:00:00.000"
	separator = "====================================================================== PROGRESS ======================================================================"

	analyzingLine = "2023-03-01T10:00:00.125 >> Analyzing: 4 planes with 10 satellites at 55.0 degrees. Complexity level: 2 > MCG: 45.3 - computation time: 1500.0 ms, memory usage: 512 MB"
	discardedLine = "2023-03-01T10:00:30.900 >> Discarded: 4 planes with 10 satellites at 55.0 degrees. Complexity level: 1 > MCG: 130.2"
	solutionLine  = "2023-03-01T10:02:00.000 >> SOLUTION!: 4 planes with 10 satellites at 55.0 degrees. MCG: 12.3"
)

func TestParseWellFormedLog(t *testing.T) {
	lines := []string{header, separator, analyzingLine, discardedLine, solutionLine, "1 Solutions found"}

	res, err := Parse(lines)
	require.NoError(t, err)

	require.Len(t, res.Analyses(), 1)
	a := res.Analyses()[0]
	assert.Equal(t, 0.0, a.ElapsedSeconds)
	assert.Equal(t, 2, a.ComplexityLevel)
	assert.InDelta(t, 45.3, a.MaxContactGap, 1e-9)
	assert.InDelta(t, 1.5, a.ComputeTimeSeconds, 1e-9)
	assert.InDelta(t, 512.0, a.MemoryUsageMB, 1e-9)

	assert.Equal(t, 1, res.DiscardedCount())
	assert.Equal(t, 3, res.DataLines())

	require.Len(t, res.Solutions(), 1)
	s := res.Solutions()[0]
	assert.InDelta(t, 2.0, s.ElapsedMinutes, 1e-9)
	assert.Equal(t, 40, s.TotalSatellites)

	origin := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, res.TimeOrigin().Equal(origin), "origin %v", res.TimeOrigin())
}

func TestParseSolutionFields(t *testing.T) {
	line := "2024-01-01T00:00:05 x SOLUTION!: 4 a b 10 c d 55.0 e f 12.3"

	res, err := Parse([]string{line})
	require.NoError(t, err)
	require.Len(t, res.Solutions(), 1)

	assert.Equal(t, SolutionSample{
		ElapsedMinutes:     0,
		Planes:             4,
		SatellitesPerPlane: 10,
		TotalSatellites:    40,
		InclinationDeg:     55.0,
		MaxContactGap:      12.3,
	}, res.Solutions()[0])
}

func TestParseUnknownTag(t *testing.T) {
	line := "2024-01-01T00:00:05 x Unknown: 4 a b 10 c d 55.0 e f 12.3"
	lines := []string{header, solutionLine, line, solutionLine}

	res, err := Parse(lines)
	require.Error(t, err)
	assert.Nil(t, res)

	var malformed *MalformedLogError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Index)
	assert.Equal(t, "Unknown:", malformed.Tag)
	assert.Equal(t, line, malformed.Line)
	assert.True(t, errors.Is(err, ErrMalformedLog))
	assert.False(t, errors.Is(err, ErrFieldExtraction))
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseFieldExtractionErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		field   int
		kind    EventKind
		wrapped bool
	}{
		{
			name:  "analyzing line truncated before memory",
			line:  "2023-03-01T10:00:00 >> Analyzing: 4 planes with 10 satellites at 55.0 degrees. Complexity level: 2 > MCG: 45.3 - computation time: 1500.0 ms, memory",
			field: 24,
			kind:  EventAnalyzing,
		},
		{
			name:    "analyzing complexity not an integer",
			line:    "2023-03-01T10:00:00 >> Analyzing: 4 planes with 10 satellites at 55.0 degrees. Complexity level: two > MCG: 45.3 - computation time: 1500.0 ms, memory usage: 512 MB",
			field:   13,
			kind:    EventAnalyzing,
			wrapped: true,
		},
		{
			name:    "flower solution layout",
			line:    "2023-03-01T10:00:00 >> SOLUTION!: NumSats 24 NumDays 1 NumPetals 8 PD 1 PN 3 inclination:55.0 MCG: 12.0",
			field:   3,
			kind:    EventSolution,
			wrapped: true,
		},
		{
			name:  "solution missing gap",
			line:  "2023-03-01T10:00:00 >> SOLUTION!: 4 planes with 10 satellites at 55.0 degrees. MCG:",
			field: 12,
			kind:  EventSolution,
		},
		{
			name:    "bad timestamp",
			line:    "2023-13-45T99:00:00.000 >> Discarded: 1",
			field:   0,
			kind:    EventUnknown,
			wrapped: true,
		},
		{
			name:  "data line without tag",
			line:  "2023-03-01T10:00:00 >>",
			field: 2,
			kind:  EventUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]string{header, tt.line})
			require.Error(t, err)
			assert.Nil(t, res)

			var fe *FieldExtractionError
			require.True(t, errors.As(err, &fe), "got %T", err)
			assert.Equal(t, 1, fe.Index)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, tt.wrapped, fe.Err != nil)
			assert.True(t, errors.Is(err, ErrFieldExtraction))
		})
	}
}

func TestParseSkipsNonDataLines(t *testing.T) {
	banner := "==== HEADER ===="
	base := []string{analyzingLine, discardedLine, solutionLine}

	variants := map[string][]string{
		"start":  {banner, analyzingLine, discardedLine, solutionLine},
		"middle": {analyzingLine, banner, discardedLine, solutionLine},
		"end":    {analyzingLine, discardedLine, solutionLine, banner},
		"blank":  {"", analyzingLine, "   ", discardedLine, solutionLine},
	}

	want, err := Parse(base)
	require.NoError(t, err)

	for name, lines := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(lines)
			require.NoError(t, err)
			assert.Equal(t, want.Analyses(), got.Analyses())
			assert.Equal(t, want.Solutions(), got.Solutions())
			assert.Equal(t, want.DiscardedCount(), got.DiscardedCount())
		})
	}
}

func TestParseNoDataLines(t *testing.T) {
	res, err := Parse([]string{header, separator, "0 Solutions found"})
	require.NoError(t, err)
	assert.Empty(t, res.Analyses())
	assert.Empty(t, res.Solutions())
	assert.Equal(t, 0, res.DiscardedCount())
	assert.True(t, res.Empty())
	assert.True(t, res.TimeOrigin().IsZero())

	res, err = Parse(nil)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestParseDiscardedCount(t *testing.T) {
	lines := []string{header}
	for i := 0; i < 7; i++ {
		lines = append(lines, discardedLine)
		if i%2 == 0 {
			lines = append(lines, analyzingLine)
		}
	}

	res, err := Parse(lines)
	require.NoError(t, err)
	assert.Equal(t, 7, res.DiscardedCount())
	assert.Len(t, res.Analyses(), 4)
}

func TestParseElapsedTimesMonotonic(t *testing.T) {
	lines := []string{
		header,
		"2023-03-01T10:00:00.999 >> Analyzing: 3 planes with 5 satellites at 60.0 degrees. Complexity level: 0 > MCG: 80.0 - computation time: 10.0 ms, memory usage: 100 MB",
		"2023-03-01T10:00:10.000 >> Analyzing: 3 planes with 5 satellites at 60.0 degrees. Complexity level: 1 > MCG: 90.0 - computation time: 20.0 ms, memory usage: 120 MB",
		"2023-03-01T10:01:00.000 >> SOLUTION!: 3 planes with 5 satellites at 60.0 degrees. MCG: 90.0",
		"2023-03-01T10:05:30.000 >> Analyzing: 3 planes with 6 satellites at 60.0 degrees. Complexity level: 0 > MCG: 70.0 - computation time: 10.0 ms, memory usage: 100 MB",
		"2023-03-01T11:00:00.000 >> SOLUTION!: 3 planes with 6 satellites at 60.0 degrees. MCG: 70.0",
	}

	res, err := Parse(lines)
	require.NoError(t, err)

	analyses := res.Analyses()
	require.Len(t, analyses, 3)
	assert.Equal(t, []float64{0, 10, 330}, []float64{analyses[0].ElapsedSeconds, analyses[1].ElapsedSeconds, analyses[2].ElapsedSeconds})

	solutions := res.Solutions()
	require.Len(t, solutions, 2)
	assert.InDelta(t, 1.0, solutions[0].ElapsedMinutes, 1e-9)
	assert.InDelta(t, 60.0, solutions[1].ElapsedMinutes, 1e-9)

	for _, s := range solutions {
		assert.Equal(t, s.Planes*s.SatellitesPerPlane, s.TotalSatellites)
	}
}

func TestParseConcatenatedSharesOrigin(t *testing.T) {
	primary := []string{
		header,
		"2023-03-01T10:00:00.000 >> Discarded: 1",
		"2023-03-01T10:10:00.000 >> SOLUTION!: 4 planes with 10 satellites at 55.0 degrees. MCG: 100.0",
		"2 Solutions found",
	}
	short := []string{
		"Starting analysis at 2023-03-02T08:00:00.000",
		"2023-03-02T08:00:00.000 >> SOLUTION!: 2 planes with 3 satellites at 70.0 degrees. MCG: 110.0",
	}

	alone, err := Parse(primary)
	require.NoError(t, err)

	combined, err := Parse(append(append([]string{}, primary...), short...))
	require.NoError(t, err)

	assert.True(t, alone.TimeOrigin().Equal(combined.TimeOrigin()))
	sols := combined.Solutions()
	require.Len(t, sols, 2)
	assert.InDelta(t, 22*60.0, sols[1].ElapsedMinutes, 1e-9)
}

func TestParseResultIsImmutable(t *testing.T) {
	res, err := Parse([]string{solutionLine})
	require.NoError(t, err)

	sols := res.Solutions()
	sols[0].Planes = 99
	assert.Equal(t, 4, res.Solutions()[0].Planes)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Classification
	}{
		{header, Classification{}},
		{"", Classification{}},
		{analyzingLine, Classification{Data: true, Kind: EventAnalyzing, Tag: TagAnalyzing}},
		{discardedLine, Classification{Data: true, Kind: EventDiscarded, Tag: TagDiscarded}},
		{solutionLine, Classification{Data: true, Kind: EventSolution, Tag: TagSolution}},
		{"2099 x Other:", Classification{Data: true, Kind: EventUnknown, Tag: "Other:"}},
		{"2099", Classification{Data: true}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.line), tt.line)
	}
}

func TestParseReader(t *testing.T) {
	input := strings.Join([]string{header, analyzingLine, solutionLine}, "\r\n") + "\r\n"

	res, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, res.Analyses(), 1)
	assert.Len(t, res.Solutions(), 1)
}

func TestKindFromTag(t *testing.T) {
	for _, kind := range []EventKind{EventAnalyzing, EventDiscarded, EventSolution} {
		assert.Equal(t, kind, KindFromTag(kind.String()))
	}
	assert.Equal(t, EventUnknown, KindFromTag("analyzing:"))
}
