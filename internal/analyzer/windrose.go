package analyzer

import "wind_assess/internal/model"

// DefaultSectors is the usual wind rose resolution.
const DefaultSectors = 16

// Rose holds direction frequencies over equal angular sectors. Sector 0 is
// centered on north; sectors proceed clockwise.
type Rose struct {
	Sectors   int
	Counts    []int
	Frequency []float64 // counts normalized to sum 1, zero-length input gives zeros
}

// NewRose bins the series directions into a wind rose histogram. Sector i
// covers [i*width - width/2, i*width + width/2) so that, with 16 sectors,
// sector 0 is "N", sector 4 is "E" and so on.
func NewRose(series model.PointSeries, sectors int) Rose {
	if sectors <= 0 {
		sectors = DefaultSectors
	}
	rose := Rose{
		Sectors:   sectors,
		Counts:    make([]int, sectors),
		Frequency: make([]float64, sectors),
	}

	width := 360.0 / float64(sectors)
	for _, dir := range series.Direction {
		// Shift by half a sector so each sector is centered on its heading
		idx := int((dir+width/2)/width) % sectors
		rose.Counts[idx]++
	}

	total := len(series.Direction)
	if total > 0 {
		for i, c := range rose.Counts {
			rose.Frequency[i] = float64(c) / float64(total)
		}
	}
	return rose
}
