package analyzer

import (
	"fmt"
	"sort"

	"wind_assess/internal/energy"
	"wind_assess/internal/grid"
	"wind_assess/internal/model"
	"wind_assess/internal/sampler"
	"wind_assess/internal/shear"
	"wind_assess/internal/weibull"
)

// Callback receives completed analyses, e.g. for broadcasting to clients.
type Callback interface {
	OnPointReport(PointReport)
	OnAEPReport(AEPReport)
}

// PointReport summarizes the wind resource at one location and height.
type PointReport struct {
	Lat           float64
	Lon           float64
	Height        float64
	Samples       int
	MeanSpeedMS   float64
	MaxSpeedMS    float64
	Fit           model.WeibullFit
	Rose          Rose
	ShearExponent float64 // 0 when the height is a native grid level
}

// AEPReport pairs the distribution-based AEP estimate with the empirical
// sum over the hourly record.
type AEPReport struct {
	Result        model.AEPResult
	EmpiricalMWh  float64
	ShearExponent float64
	Lat           float64
	Lon           float64
	HubHeight     float64
}

// Engine wires the grid dataset, the turbine curve catalog and the analysis
// steps together. It holds no mutable analysis state; every report is a pure
// function of the immutable dataset and the request parameters.
type Engine struct {
	ds     *grid.Dataset
	curves map[string]model.PowerCurve
	cb     Callback
}

func New(ds *grid.Dataset, cb Callback) *Engine {
	return &Engine{
		ds:     ds,
		curves: make(map[string]model.PowerCurve),
		cb:     cb,
	}
}

// Dataset returns the engine's grid dataset.
func (e *Engine) Dataset() *grid.Dataset { return e.ds }

// AddCurve registers a turbine power curve under its name.
func (e *Engine) AddCurve(curve model.PowerCurve) {
	e.curves[curve.Name] = curve
}

// CurveNames returns the registered turbine curve names, sorted.
func (e *Engine) CurveNames() []string {
	names := make([]string, 0, len(e.curves))
	for name := range e.curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Curve looks up a registered power curve by name.
func (e *Engine) Curve(name string) (model.PowerCurve, bool) {
	c, ok := e.curves[name]
	return c, ok
}

// PointReport computes the resource summary at (lat, lon, height) over the
// optional time window (nil = full record). Heights other than the native
// grid levels are reached via power-law extrapolation from the upper level.
func (e *Engine) PointReport(lat, lon, height float64, window *model.TimeRange) (PointReport, error) {
	series, alpha, err := e.seriesAt(lat, lon, height, window)
	if err != nil {
		return PointReport{}, err
	}

	fit, err := weibull.Fit(series)
	if err != nil {
		return PointReport{}, fmt.Errorf("fitting distribution: %w", err)
	}

	report := PointReport{
		Lat:           lat,
		Lon:           lon,
		Height:        height,
		Samples:       series.Len(),
		MeanSpeedMS:   series.MeanSpeed(),
		MaxSpeedMS:    maxSpeed(series),
		Fit:           fit,
		Rose:          NewRose(series, DefaultSectors),
		ShearExponent: alpha,
	}
	if e.cb != nil {
		e.cb.OnPointReport(report)
	}
	return report, nil
}

// AEP estimates annual energy production for a registered turbine at the
// given hub height.
func (e *Engine) AEP(lat, lon, hubHeight float64, curveName string, availability float64, window *model.TimeRange) (AEPReport, error) {
	curve, ok := e.curves[curveName]
	if !ok {
		return AEPReport{}, fmt.Errorf("unknown power curve %q", curveName)
	}

	series, alpha, err := e.seriesAt(lat, lon, hubHeight, window)
	if err != nil {
		return AEPReport{}, err
	}

	fit, err := weibull.Fit(series)
	if err != nil {
		return AEPReport{}, fmt.Errorf("fitting distribution: %w", err)
	}

	result, err := energy.ComputeAEP(fit, curve, energy.Options{Availability: availability})
	if err != nil {
		return AEPReport{}, err
	}
	empirical, err := energy.ComputeAEPFromSeries(series, curve, availability)
	if err != nil {
		return AEPReport{}, err
	}

	report := AEPReport{
		Result:        result,
		EmpiricalMWh:  empirical,
		ShearExponent: alpha,
		Lat:           lat,
		Lon:           lon,
		HubHeight:     hubHeight,
	}
	if e.cb != nil {
		e.cb.OnAEPReport(report)
	}
	return report, nil
}

// seriesAt produces the hub-height speed series. Native grid levels are
// sampled directly; any other height goes through median-mode shear
// estimation between the two levels and extrapolation from the upper one.
func (e *Engine) seriesAt(lat, lon, height float64, window *model.TimeRange) (model.PointSeries, float64, error) {
	ds := e.ds
	if window != nil {
		sub, err := ds.Subset(*window)
		if err != nil {
			return model.PointSeries{}, 0, err
		}
		ds = sub
	}

	if _, ok := ds.HeightIndex(height); ok {
		series, err := sampler.Sample(ds, lat, lon, height)
		return series, 0, err
	}

	lower, err := sampler.Sample(ds, lat, lon, model.HeightLower)
	if err != nil {
		return model.PointSeries{}, 0, err
	}
	upper, err := sampler.Sample(ds, lat, lon, model.HeightUpper)
	if err != nil {
		return model.PointSeries{}, 0, err
	}

	exp, err := shear.Estimate(lower, upper, model.HeightLower, model.HeightUpper, shear.ModeMedian)
	if err != nil {
		return model.PointSeries{}, 0, fmt.Errorf("estimating shear: %w", err)
	}

	series, err := shear.Extrapolate(upper, model.HeightUpper, height, exp)
	if err != nil {
		return model.PointSeries{}, 0, err
	}
	return series, exp.Alpha, nil
}

func maxSpeed(series model.PointSeries) float64 {
	max := 0.0
	for _, s := range series.Speed {
		if s > max {
			max = s
		}
	}
	return max
}
