package grid

import (
	"fmt"
	"math"
	"sort"
	"time"

	"wind_assess/internal/ingest"
	"wind_assess/internal/model"
)

// Dataset holds a merged reanalysis wind grid in memory: strictly increasing
// timestamps, ascending lat/lon axes, the two fixed height levels, and flat
// u/v component arrays indexed (time, height, lat, lon). Built once per
// analysis session and immutable afterwards.
type Dataset struct {
	Times   []time.Time
	Lats    []float64
	Lons    []float64
	Heights []float64

	u []float64
	v []float64
}

// blockSize is the number of values per timestamp.
func (d *Dataset) blockSize() int {
	return len(d.Heights) * len(d.Lats) * len(d.Lons)
}

func (d *Dataset) index(ti, hi, lai, loi int) int {
	return ((ti*len(d.Heights)+hi)*len(d.Lats)+lai)*len(d.Lons) + loi
}

// UV returns the wind components at the given time/height/lat/lon indexes.
func (d *Dataset) UV(ti, hi, lai, loi int) (float64, float64) {
	i := d.index(ti, hi, lai, loi)
	return d.u[i], d.v[i]
}

// HeightIndex returns the index of height h among the dataset levels.
func (d *Dataset) HeightIndex(h float64) (int, bool) {
	for i, level := range d.Heights {
		if level == h {
			return i, true
		}
	}
	return 0, false
}

// TimeRange returns the covered time span.
func (d *Dataset) TimeRange() model.TimeRange {
	if len(d.Times) == 0 {
		return model.TimeRange{}
	}
	return model.TimeRange{Start: d.Times[0], End: d.Times[len(d.Times)-1]}
}

// Subset returns a new dataset restricted to timestamps inside tr (inclusive).
// Time blocks are contiguous, so this is a binary-searched copy.
func (d *Dataset) Subset(tr model.TimeRange) (*Dataset, error) {
	startIdx := sort.Search(len(d.Times), func(i int) bool {
		return !d.Times[i].Before(tr.Start)
	})
	endIdx := sort.Search(len(d.Times), func(i int) bool {
		return d.Times[i].After(tr.End)
	})
	if startIdx >= endIdx {
		return nil, fmt.Errorf("subset %s to %s: %w",
			tr.Start.Format(time.RFC3339), tr.End.Format(time.RFC3339), model.ErrEmptyInput)
	}

	bs := d.blockSize()
	out := &Dataset{
		Times:   append([]time.Time(nil), d.Times[startIdx:endIdx]...),
		Lats:    d.Lats,
		Lons:    d.Lons,
		Heights: d.Heights,
		u:       append([]float64(nil), d.u[startIdx*bs:endIdx*bs]...),
		v:       append([]float64(nil), d.v[startIdx*bs:endIdx*bs]...),
	}
	return out, nil
}

// FromRecords assembles a dataset from parsed wind records. The lat/lon axes
// are derived from the unique coordinate values; every (time, lat, lon) node
// must be present. Duplicate timestamps keep the first occurrence.
func FromRecords(records []ingest.WindRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, model.ErrEmptyInput
	}

	lats := uniqueSorted(records, func(r ingest.WindRecord) float64 { return r.Lat })
	lons := uniqueSorted(records, func(r ingest.WindRecord) float64 { return r.Lon })

	timeIdx := make(map[time.Time]int)
	var times []time.Time
	for _, r := range records {
		if _, ok := timeIdx[r.Time]; !ok {
			timeIdx[r.Time] = len(times)
			times = append(times, r.Time)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i, t := range times {
		timeIdx[t] = i
	}

	d := &Dataset{
		Times:   times,
		Lats:    lats,
		Lons:    lons,
		Heights: []float64{model.HeightLower, model.HeightUpper},
	}
	n := len(times) * d.blockSize()
	d.u = filledNaN(n)
	d.v = filledNaN(n)

	latIdx := indexOf(lats)
	lonIdx := indexOf(lons)

	for _, r := range records {
		ti := timeIdx[r.Time]
		lai := latIdx[r.Lat]
		loi := lonIdx[r.Lon]

		lo := d.index(ti, 0, lai, loi)
		hi := d.index(ti, 1, lai, loi)
		if !math.IsNaN(d.u[lo]) {
			// Duplicate node, keep first
			continue
		}
		d.u[lo], d.v[lo] = r.U10, r.V10
		d.u[hi], d.v[hi] = r.U100, r.V100
	}

	for i, val := range d.u {
		if math.IsNaN(val) {
			return nil, fmt.Errorf("incomplete grid: missing node at flat index %d: %w", i, model.ErrSchemaMismatch)
		}
	}
	return d, nil
}

// Merge concatenates datasets along time. All inputs must share identical
// lat/lon/height coordinates. The result is sorted by timestamp with exact
// duplicates removed (first occurrence, in argument order, wins).
func Merge(datasets ...*Dataset) (*Dataset, error) {
	if len(datasets) == 0 {
		return nil, model.ErrEmptyInput
	}

	ref := datasets[0]
	for _, d := range datasets[1:] {
		if !equalAxes(ref.Lats, d.Lats) || !equalAxes(ref.Lons, d.Lons) || !equalAxes(ref.Heights, d.Heights) {
			return nil, model.ErrSchemaMismatch
		}
	}

	type block struct {
		t     time.Time
		d     *Dataset
		ti    int
		order int
	}
	var blocks []block
	order := 0
	for _, d := range datasets {
		for ti, t := range d.Times {
			blocks = append(blocks, block{t: t, d: d, ti: ti, order: order})
			order++
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].t.Equal(blocks[j].t) {
			return blocks[i].order < blocks[j].order
		}
		return blocks[i].t.Before(blocks[j].t)
	})

	out := &Dataset{
		Lats:    ref.Lats,
		Lons:    ref.Lons,
		Heights: ref.Heights,
	}
	bs := out.blockSize()
	var last time.Time
	for i, b := range blocks {
		if i > 0 && b.t.Equal(last) {
			continue
		}
		last = b.t
		out.Times = append(out.Times, b.t)
		out.u = append(out.u, b.d.u[b.ti*bs:(b.ti+1)*bs]...)
		out.v = append(out.v, b.d.v[b.ti*bs:(b.ti+1)*bs]...)
	}
	return out, nil
}

func uniqueSorted(records []ingest.WindRecord, get func(ingest.WindRecord) float64) []float64 {
	seen := make(map[float64]bool)
	var vals []float64
	for _, r := range records {
		v := get(r)
		if !seen[v] {
			seen[v] = true
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)
	return vals
}

func indexOf(vals []float64) map[float64]int {
	m := make(map[float64]int, len(vals))
	for i, v := range vals {
		m[v] = i
	}
	return m
}

func filledNaN(n int) []float64 {
	s := make([]float64, n)
	nan := math.NaN()
	for i := range s {
		s[i] = nan
	}
	return s
}

func equalAxes(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
