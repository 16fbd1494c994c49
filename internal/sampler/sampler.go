package sampler

import (
	"fmt"
	"math"
	"sort"

	"wind_assess/internal/grid"
	"wind_assess/internal/model"
)

// Sample bilinearly interpolates the u/v wind components at (lat, lon) for
// one height level and derives the speed and direction time series. The
// point must lie within the grid's coordinate extremes; only the four
// nearest corner nodes contribute, there is no extrapolation.
func Sample(ds *grid.Dataset, lat, lon, height float64) (model.PointSeries, error) {
	hi, ok := ds.HeightIndex(height)
	if !ok {
		return model.PointSeries{}, fmt.Errorf("height %.0f m: %w", height, model.ErrUnsupportedHeight)
	}

	latCell, err := locate(ds.Lats, lat)
	if err != nil {
		return model.PointSeries{}, fmt.Errorf("latitude %.4f: %w", lat, err)
	}
	lonCell, err := locate(ds.Lons, lon)
	if err != nil {
		return model.PointSeries{}, fmt.Errorf("longitude %.4f: %w", lon, err)
	}

	ps := model.PointSeries{
		Times:     ds.Times,
		Speed:     make([]float64, len(ds.Times)),
		Direction: make([]float64, len(ds.Times)),
		Lat:       lat,
		Lon:       lon,
		Height:    height,
	}

	for ti := range ds.Times {
		u := bilinear(ds, ti, hi, latCell, lonCell, componentU)
		v := bilinear(ds, ti, hi, latCell, lonCell, componentV)
		ps.Speed[ti], ps.Direction[ti] = SpeedDirection(u, v)
	}
	return ps, nil
}

// cell holds the bracketing axis indexes and the fractional position of the
// target between them. On an exact axis value lo == hi and frac == 0, which
// reduces the bilinear weights to identity without special-casing.
type cell struct {
	lo, hi int
	frac   float64
}

func locate(axis []float64, val float64) (cell, error) {
	if len(axis) == 0 || val < axis[0] || val > axis[len(axis)-1] {
		return cell{}, model.ErrOutOfBounds
	}

	// First axis index >= val
	idx := sort.SearchFloat64s(axis, val)
	if idx < len(axis) && axis[idx] == val {
		return cell{lo: idx, hi: idx}, nil
	}
	lo, hi := idx-1, idx
	frac := (val - axis[lo]) / (axis[hi] - axis[lo])
	return cell{lo: lo, hi: hi, frac: frac}, nil
}

type component int

const (
	componentU component = iota
	componentV
)

// bilinear interpolates one wind component within the enclosing cell.
func bilinear(ds *grid.Dataset, ti, hi int, latC, lonC cell, c component) float64 {
	at := func(lai, loi int) float64 {
		u, v := ds.UV(ti, hi, lai, loi)
		if c == componentU {
			return u
		}
		return v
	}

	v00 := at(latC.lo, lonC.lo)
	v01 := at(latC.lo, lonC.hi)
	v10 := at(latC.hi, lonC.lo)
	v11 := at(latC.hi, lonC.hi)

	lower := v00*(1-lonC.frac) + v01*lonC.frac
	upper := v10*(1-lonC.frac) + v11*lonC.frac
	return lower*(1-latC.frac) + upper*latC.frac
}

// SpeedDirection converts u/v components to wind speed and meteorological
// direction: degrees in [0, 360), 0 = wind from north, clockwise. Calm air
// (speed exactly 0) reports direction 0 by convention.
func SpeedDirection(u, v float64) (float64, float64) {
	speed := math.Hypot(u, v)
	if speed == 0 {
		return 0, 0
	}
	// Negated components point to where the wind is coming FROM.
	dir := math.Atan2(-u, -v) * 180 / math.Pi
	dir = math.Mod(dir+360, 360)
	return speed, dir
}
