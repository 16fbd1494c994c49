package model

import "time"

// Height levels carried by the reanalysis grid, in meters.
const (
	HeightLower = 10.0
	HeightUpper = 100.0
)

// TimeRange is a closed time interval.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range (inclusive).
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && !t.After(tr.End)
}

// PointSeries holds wind speed and direction time series at one location
// and one height. Immutable once produced by the sampler.
type PointSeries struct {
	Times     []time.Time
	Speed     []float64 // m/s, >= 0
	Direction []float64 // degrees [0, 360), meteorological (from north, clockwise)
	Lat       float64
	Lon       float64
	Height    float64 // meters
}

// Len returns the number of timestamps in the series.
func (ps PointSeries) Len() int { return len(ps.Times) }

// MeanSpeed returns the arithmetic mean wind speed, or 0 for an empty series.
func (ps PointSeries) MeanSpeed() float64 {
	if len(ps.Speed) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range ps.Speed {
		sum += s
	}
	return sum / float64(len(ps.Speed))
}

// Slice returns the sub-series whose timestamps fall inside tr (inclusive).
// The underlying arrays are copied so the result stays independent.
func (ps PointSeries) Slice(tr TimeRange) PointSeries {
	out := PointSeries{Lat: ps.Lat, Lon: ps.Lon, Height: ps.Height}
	for i, t := range ps.Times {
		if tr.Contains(t) {
			out.Times = append(out.Times, t)
			out.Speed = append(out.Speed, ps.Speed[i])
			out.Direction = append(out.Direction, ps.Direction[i])
		}
	}
	return out
}

// WeibullFit holds the two parameters of a fitted Weibull distribution.
// Both are strictly positive for any successful fit.
type WeibullFit struct {
	K float64 // shape
	A float64 // scale, m/s
}

// PowerCurvePoint is one (wind speed, power) entry of a turbine power curve.
type PowerCurvePoint struct {
	SpeedMS float64
	PowerKW float64
}

// PowerCurve maps wind speed to turbine output, strictly increasing in
// speed. Read-only reference data supplied by the caller.
type PowerCurve struct {
	Name   string
	Points []PowerCurvePoint
}

// RatedPowerKW returns the largest power value on the curve.
func (pc PowerCurve) RatedPowerKW() float64 {
	max := 0.0
	for _, p := range pc.Points {
		if p.PowerKW > max {
			max = p.PowerKW
		}
	}
	return max
}

// AEPResult holds an annual energy production estimate together with the
// inputs used to derive it.
type AEPResult struct {
	EnergyMWh    float64
	Fit          WeibullFit
	Curve        PowerCurve
	Availability float64
	HoursPerYear float64
}
