package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/constellog/internal/parser"
)

func sol(planes, perPlane int, incl, gap float64) parser.SolutionSample {
	return parser.SolutionSample{
		Planes:             planes,
		SatellitesPerPlane: perPlane,
		TotalSatellites:    planes * perPlane,
		InclinationDeg:     incl,
		MaxContactGap:      gap,
	}
}

func TestEmptySeries(t *testing.T) {
	checks := map[string]error{}
	_, checks["min sats"] = MinTotalSatellites(nil)
	_, checks["min incl"] = MinInclination(nil)
	_, checks["within"] = MinSatellitesWithin(nil, 120)
	_, checks["mean"] = Mean(nil)
	_, checks["max"] = Max(nil)
	_, checks["last"] = LastSolutionMinutes(nil)
	_, checks["profile"] = ComplexityProfile(nil)
	_, checks["curve"] = ThresholdCurve(nil, map[string]float64{"Mesh": 120})

	for name, err := range checks {
		t.Run(name, func(t *testing.T) {
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptySeries))
			var empty *EmptySeriesError
			assert.True(t, errors.As(err, &empty))
		})
	}
}

func TestMinTotalSatellitesKeepsFirst(t *testing.T) {
	sols := []parser.SolutionSample{
		sol(6, 6, 60, 100),
		sol(4, 6, 55, 110),
		sol(3, 8, 50, 115),
		sol(8, 5, 45, 90),
	}

	best, err := MinTotalSatellites(sols)
	require.NoError(t, err)
	assert.Equal(t, 4, best.Planes)

	lowest, err := MinInclination(sols)
	require.NoError(t, err)
	assert.Equal(t, 8, lowest.Planes)
}

func TestMinSatellitesWithin(t *testing.T) {
	sols := []parser.SolutionSample{
		sol(2, 4, 60, 150),
		sol(3, 4, 60, 118),
		sol(4, 4, 60, 55),
	}

	best, err := MinSatellitesWithin(sols, 120)
	require.NoError(t, err)
	assert.Equal(t, 12, best.TotalSatellites)

	best, err = MinSatellitesWithin(sols, 60)
	require.NoError(t, err)
	assert.Equal(t, 16, best.TotalSatellites)

	_, err = MinSatellitesWithin(sols, 30)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestMeanAndMax(t *testing.T) {
	mean, err := Mean([]float64{1, 2, 3, 6})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, mean, 1e-9)

	m, err := Max([]float64{-1, 7, 3})
	require.NoError(t, err)
	assert.Equal(t, 7.0, m)
}

func TestComplexityProfile(t *testing.T) {
	analyses := []parser.AnalysisSample{
		{ComplexityLevel: 0, ComputeTimeSeconds: 1800, MemoryUsageMB: 100},
		{ComplexityLevel: 0, ComputeTimeSeconds: 1800, MemoryUsageMB: 300},
		{ComplexityLevel: 2, ComputeTimeSeconds: 7200, MemoryUsageMB: 900},
		{ComplexityLevel: 3, ComputeTimeSeconds: 3600, MemoryUsageMB: 1200},
	}

	p, err := ComplexityProfile(analyses)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Levels[0].Samples)
	assert.InDelta(t, 1.0, p.Levels[0].ComputeHours, 1e-9)
	assert.InDelta(t, 200.0, p.Levels[0].AvgMemoryMB, 1e-9)

	assert.Equal(t, 0, p.Levels[1].Samples)
	assert.Equal(t, 0.0, p.Levels[1].AvgMemoryMB)
	assert.Equal(t, 4, p.Levels[4].Level)
	assert.Equal(t, 0.0, p.Levels[4].AvgMemoryMB)

	assert.InDelta(t, 4.0, p.TotalComputeHours, 1e-9)
	assert.InDelta(t, 1200.0, p.MaxAvgMemoryMB, 1e-9)
}

func TestComplexityProfileRejectsUnknownLevel(t *testing.T) {
	_, err := ComplexityProfile([]parser.AnalysisSample{{ComplexityLevel: 5}})
	assert.ErrorContains(t, err, "out of range")
}

func TestThresholdCurve(t *testing.T) {
	runs := map[string][]parser.SolutionSample{
		"Mesh_60":    {sol(6, 6, 60, 58), sol(5, 6, 60, 59)},
		"Mesh":       {sol(3, 5, 60, 119)},
		"Mesh_NBIoT": {sol(2, 5, 60, 180)},
		"Extreme":    {sol(1, 1, 1, 1)},
	}
	thresholds := map[string]float64{"Mesh_60": 60, "Mesh": 120, "Mesh_NBIoT": 183, "Mesh_Missing": 90}

	points, err := ThresholdCurve(runs, thresholds)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "Mesh_60", points[0].Model)
	assert.Equal(t, 30, points[0].MinSatellites)
	assert.Equal(t, 120.0, points[1].ThresholdMinutes)
	assert.Equal(t, 15, points[1].MinSatellites)
	assert.Equal(t, "Mesh_NBIoT", points[2].Model)
	assert.Equal(t, 10, points[2].MinSatellites)
}

func TestThresholdCurveEmptyRun(t *testing.T) {
	runs := map[string][]parser.SolutionSample{"Mesh": {}}
	_, err := ThresholdCurve(runs, map[string]float64{"Mesh": 120})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySeries)
	assert.Contains(t, err.Error(), "model Mesh")
}
