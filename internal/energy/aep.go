package energy

import (
	"fmt"

	"wind_assess/internal/model"
	"wind_assess/internal/weibull"
)

// HoursPerYear is the default annual duration for AEP estimates.
const HoursPerYear = 8760.0

// Options tunes an AEP computation. Zero values select the defaults.
type Options struct {
	HoursPerYear float64 // default 8760
	Availability float64 // turbine availability factor (0-1], default 1.0
}

func (o Options) withDefaults() Options {
	if o.HoursPerYear == 0 {
		o.HoursPerYear = HoursPerYear
	}
	if o.Availability == 0 {
		o.Availability = 1.0
	}
	return o
}

// ComputeAEP integrates a turbine power curve against a fitted Weibull
// distribution. For each consecutive pair of curve points the Weibull
// probability mass in that speed bin is multiplied by the segment's mean
// power and the annual duration. Speeds below the first listed speed
// (sub-cut-in) and above the last (cut-out) contribute zero power.
func ComputeAEP(fit model.WeibullFit, curve model.PowerCurve, opts Options) (model.AEPResult, error) {
	if len(curve.Points) < 2 {
		return model.AEPResult{}, model.ErrEmptyPowerCurve
	}
	if fit.K <= 0 || fit.A <= 0 {
		return model.AEPResult{}, fmt.Errorf("invalid weibull parameters k=%.3f A=%.3f", fit.K, fit.A)
	}
	opts = opts.withDefaults()

	dist := weibull.Distribution(fit)
	var energyKWh float64
	for i := 1; i < len(curve.Points); i++ {
		lo, hi := curve.Points[i-1], curve.Points[i]
		mass := dist.CDF(hi.SpeedMS) - dist.CDF(lo.SpeedMS)
		meanPowerKW := (lo.PowerKW + hi.PowerKW) / 2
		energyKWh += mass * meanPowerKW * opts.HoursPerYear
	}
	energyKWh *= opts.Availability

	return model.AEPResult{
		EnergyMWh:    energyKWh / 1000,
		Fit:          fit,
		Curve:        curve,
		Availability: opts.Availability,
		HoursPerYear: opts.HoursPerYear,
	}, nil
}

// ComputeAEPFromSeries sums turbine output over an hourly hub-height speed
// series instead of a fitted distribution: each timestamp contributes one
// hour at the interpolated curve power. Useful for single-year estimates
// where the empirical record is preferred over the Weibull model.
func ComputeAEPFromSeries(series model.PointSeries, curve model.PowerCurve, availability float64) (float64, error) {
	if len(curve.Points) < 2 {
		return 0, model.ErrEmptyPowerCurve
	}
	if availability == 0 {
		availability = 1.0
	}

	var energyKWh float64
	for _, s := range series.Speed {
		energyKWh += PowerAt(curve, s) // * 1h
	}
	return energyKWh * availability / 1000, nil
}

// PowerAt linearly interpolates the curve at the given speed. Outside the
// listed speed range the turbine produces nothing.
func PowerAt(curve model.PowerCurve, speed float64) float64 {
	pts := curve.Points
	if len(pts) == 0 || speed < pts[0].SpeedMS || speed > pts[len(pts)-1].SpeedMS {
		return 0
	}
	for i := 1; i < len(pts); i++ {
		if speed <= pts[i].SpeedMS {
			lo, hi := pts[i-1], pts[i]
			frac := (speed - lo.SpeedMS) / (hi.SpeedMS - lo.SpeedMS)
			return lo.PowerKW + frac*(hi.PowerKW-lo.PowerKW)
		}
	}
	return 0
}
