package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"wind_assess/internal/grid"
	"wind_assess/internal/model"
	"wind_assess/internal/sampler"
)

// Dataset inspection tool: prints coordinate axes, time coverage and mean
// speeds at the grid center.
func main() {
	inputDir := flag.String("input-dir", "input", "directory containing gridded wind CSV files")
	flag.Parse()

	entries, err := os.ReadDir(*inputDir)
	if err != nil {
		log.Fatalf("Reading input directory: %v", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".csv") {
			paths = append(paths, filepath.Join(*inputDir, entry.Name()))
		}
	}

	ds, err := grid.Load(paths)
	if err != nil {
		log.Fatalf("Loading wind data: %v", err)
	}

	tr := ds.TimeRange()
	fmt.Printf("Files:      %d\n", len(paths))
	fmt.Printf("Timestamps: %d (%s to %s)\n", len(ds.Times),
		tr.Start.Format("2006-01-02 15:04"), tr.End.Format("2006-01-02 15:04"))
	fmt.Printf("Latitudes:  %v\n", ds.Lats)
	fmt.Printf("Longitudes: %v\n", ds.Lons)
	fmt.Printf("Heights:    %v m\n", ds.Heights)

	centerLat := (ds.Lats[0] + ds.Lats[len(ds.Lats)-1]) / 2
	centerLon := (ds.Lons[0] + ds.Lons[len(ds.Lons)-1]) / 2
	for _, h := range []float64{model.HeightLower, model.HeightUpper} {
		series, err := sampler.Sample(ds, centerLat, centerLon, h)
		if err != nil {
			log.Fatalf("Sampling grid center: %v", err)
		}
		fmt.Printf("Mean speed at grid center, %3.0f m: %.2f m/s\n", h, series.MeanSpeed())
	}
}
