package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wind_assess/internal/model"
)

func curveOf(name string, pts ...model.PowerCurvePoint) model.PowerCurve {
	return model.PowerCurve{Name: name, Points: pts}
}

var rectCurve = curveOf("rect",
	model.PowerCurvePoint{SpeedMS: 0, PowerKW: 0},
	model.PowerCurvePoint{SpeedMS: 10, PowerKW: 1000},
	model.PowerCurvePoint{SpeedMS: 25, PowerKW: 1000},
)

func TestComputeAEP_Bounds(t *testing.T) {
	fit := model.WeibullFit{K: 2, A: 8}

	result, err := ComputeAEP(fit, rectCurve, Options{})
	require.NoError(t, err)

	// Strictly between zero and rated power running all year
	assert.Greater(t, result.EnergyMWh, 0.0)
	assert.Less(t, result.EnergyMWh, 1000.0*8760/1000)

	assert.Equal(t, fit, result.Fit)
	assert.Equal(t, "rect", result.Curve.Name)
	assert.Equal(t, 1.0, result.Availability)
	assert.Equal(t, 8760.0, result.HoursPerYear)
}

func TestComputeAEP_MonotonicInPower(t *testing.T) {
	fit := model.WeibullFit{K: 2, A: 8}

	base, err := ComputeAEP(fit, rectCurve, Options{})
	require.NoError(t, err)

	boosted := curveOf("boosted",
		model.PowerCurvePoint{SpeedMS: 0, PowerKW: 0},
		model.PowerCurvePoint{SpeedMS: 10, PowerKW: 1500},
		model.PowerCurvePoint{SpeedMS: 25, PowerKW: 1500},
	)
	more, err := ComputeAEP(fit, boosted, Options{})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, more.EnergyMWh, base.EnergyMWh)
}

func TestComputeAEP_Availability(t *testing.T) {
	fit := model.WeibullFit{K: 2, A: 8}

	full, err := ComputeAEP(fit, rectCurve, Options{})
	require.NoError(t, err)
	half, err := ComputeAEP(fit, rectCurve, Options{Availability: 0.5})
	require.NoError(t, err)

	assert.InDelta(t, full.EnergyMWh/2, half.EnergyMWh, 1e-9)
}

func TestComputeAEP_EmptyCurve(t *testing.T) {
	fit := model.WeibullFit{K: 2, A: 8}

	_, err := ComputeAEP(fit, curveOf("empty"), Options{})
	assert.ErrorIs(t, err, model.ErrEmptyPowerCurve)

	_, err = ComputeAEP(fit, curveOf("single", model.PowerCurvePoint{SpeedMS: 5, PowerKW: 100}), Options{})
	assert.ErrorIs(t, err, model.ErrEmptyPowerCurve)
}

func TestComputeAEP_InvalidFit(t *testing.T) {
	_, err := ComputeAEP(model.WeibullFit{K: 0, A: 8}, rectCurve, Options{})
	require.Error(t, err)
}

func TestPowerAt(t *testing.T) {
	curve := curveOf("linear",
		model.PowerCurvePoint{SpeedMS: 3, PowerKW: 0},
		model.PowerCurvePoint{SpeedMS: 13, PowerKW: 1000},
	)

	assert.Equal(t, 0.0, PowerAt(curve, 2.9), "sub-cut-in gives nothing")
	assert.Equal(t, 0.0, PowerAt(curve, 13.1), "cut-out gives nothing")
	assert.InDelta(t, 0.0, PowerAt(curve, 3), 1e-12)
	assert.InDelta(t, 500.0, PowerAt(curve, 8), 1e-12)
	assert.InDelta(t, 1000.0, PowerAt(curve, 13), 1e-12)
}

func TestComputeAEPFromSeries(t *testing.T) {
	// Steady 8 m/s across the rectangular curve's ramp: 800 kW per hour
	series := model.PointSeries{Speed: []float64{8, 8, 8, 8}}

	mwh, err := ComputeAEPFromSeries(series, rectCurve, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 4*800.0/1000, mwh, 1e-9)
}

func TestComputeAEPFromSeries_EmptyCurve(t *testing.T) {
	_, err := ComputeAEPFromSeries(model.PointSeries{Speed: []float64{8}}, curveOf("empty"), 1.0)
	assert.ErrorIs(t, err, model.ErrEmptyPowerCurve)
}
