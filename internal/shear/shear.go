package shear

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"wind_assess/internal/model"
)

// NearCalmSpeed is the speed threshold (m/s) below which a timestamp is
// excluded from the shear estimate. The log of a near-zero speed ratio is
// numerically meaningless.
const NearCalmSpeed = 0.1

// Mode selects how the shear exponent is represented.
type Mode int

const (
	// ModeMedian produces a single representative exponent, the median over
	// all valid timestamps.
	ModeMedian Mode = iota
	// ModeTimeVarying produces one exponent per timestamp. Excluded
	// timestamps carry NaN.
	ModeTimeVarying
)

// Exponent is a power-law shear exponent for one location, either a single
// scalar or a per-timestamp series depending on the estimation mode.
type Exponent struct {
	Alpha       float64
	Series      []float64
	TimeVarying bool
}

// Estimate derives the power-law exponent from speed series at two known
// heights: alpha = ln(s_upper/s_lower) / ln(upperH/lowerH) per timestamp.
// Timestamps where either speed is at or below NearCalmSpeed are excluded;
// if none remain the estimate is degenerate.
func Estimate(lower, upper model.PointSeries, lowerH, upperH float64, mode Mode) (Exponent, error) {
	if lower.Len() != upper.Len() {
		return Exponent{}, fmt.Errorf("series length mismatch: %d vs %d", lower.Len(), upper.Len())
	}
	if lowerH <= 0 || upperH <= 0 || lowerH == upperH {
		return Exponent{}, fmt.Errorf("invalid height pair %.1f/%.1f", lowerH, upperH)
	}

	logHeightRatio := math.Log(upperH / lowerH)
	series := make([]float64, lower.Len())
	var valid []float64

	for i := range series {
		sl, su := lower.Speed[i], upper.Speed[i]
		if sl <= NearCalmSpeed || su <= NearCalmSpeed {
			series[i] = math.NaN()
			continue
		}
		a := math.Log(su/sl) / logHeightRatio
		series[i] = a
		valid = append(valid, a)
	}

	if len(valid) == 0 {
		return Exponent{}, model.ErrDegenerateShear
	}

	if mode == ModeTimeVarying {
		return Exponent{Series: series, TimeVarying: true}, nil
	}

	sort.Float64s(valid)
	return Exponent{Alpha: stat.Quantile(0.5, stat.Empirical, valid, nil)}, nil
}

// Extrapolate scales a speed series from one height to another via the
// power law: s(to) = s(from) * (to/from)^alpha. Direction is unchanged.
// In time-varying mode, timestamps with no exponent (calm at estimation
// time) keep their measured speed.
func Extrapolate(series model.PointSeries, fromH, toH float64, exp Exponent) (model.PointSeries, error) {
	if fromH <= 0 || toH <= 0 {
		return model.PointSeries{}, fmt.Errorf("invalid height pair %.1f/%.1f", fromH, toH)
	}
	if exp.TimeVarying && len(exp.Series) != series.Len() {
		return model.PointSeries{}, fmt.Errorf("exponent series length %d does not match speed series length %d",
			len(exp.Series), series.Len())
	}

	heightRatio := toH / fromH
	out := model.PointSeries{
		Times:     series.Times,
		Speed:     make([]float64, series.Len()),
		Direction: series.Direction,
		Lat:       series.Lat,
		Lon:       series.Lon,
		Height:    toH,
	}

	for i, s := range series.Speed {
		alpha := exp.Alpha
		if exp.TimeVarying {
			alpha = exp.Series[i]
			if math.IsNaN(alpha) {
				out.Speed[i] = s
				continue
			}
		}
		out.Speed[i] = s * math.Pow(heightRatio, alpha)
	}
	return out, nil
}
