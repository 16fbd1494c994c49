package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wind_assess/internal/analyzer"
	"wind_assess/internal/grid"
	"wind_assess/internal/ingest"
	"wind_assess/internal/model"
)

// Full assessment workflow for one location: point statistics and Weibull
// fit at 100 m, wind rose, and AEP for each supplied turbine curve.
func main() {
	inputDir := flag.String("input-dir", "input", "directory containing gridded wind CSV files")
	curvesFlag := flag.String("curves", "", "comma-separated turbine power curve CSV paths")
	lat := flag.Float64("lat", 55.5297, "latitude of the assessment point")
	lon := flag.Float64("lon", 7.9061, "longitude of the assessment point")
	hubHeight := flag.Float64("hub-height", 90, "turbine hub height in meters")
	availability := flag.Float64("availability", 1.0, "turbine availability factor (0-1]")
	yearFlag := flag.Int("year", 0, "restrict the AEP estimate to one year (0 = full record)")
	flag.Parse()

	ds := loadGrid(*inputDir)
	engine := analyzer.New(ds, nil)

	for _, path := range splitPaths(*curvesFlag) {
		engine.AddCurve(loadCurve(path))
	}
	if len(engine.CurveNames()) == 0 {
		log.Fatal("No power curves given (use -curves)")
	}

	tr := ds.TimeRange()
	fmt.Printf("Record: %s to %s (%d timestamps)\n",
		tr.Start.Format("2006-01-02"), tr.End.Format("2006-01-02"), len(ds.Times))

	// Resource summary at the upper grid level
	report, err := engine.PointReport(*lat, *lon, model.HeightUpper, nil)
	if err != nil {
		log.Fatalf("Point analysis failed: %v", err)
	}
	fmt.Printf("\nPoint (%.4f, %.4f) at %.0f m:\n", *lat, *lon, report.Height)
	fmt.Printf("  mean speed  %.2f m/s (max %.2f)\n", report.MeanSpeedMS, report.MaxSpeedMS)
	fmt.Printf("  Weibull     k=%.3f A=%.3f m/s\n", report.Fit.K, report.Fit.A)
	printRose(report.Rose)

	window := yearWindow(*yearFlag)
	for _, name := range engine.CurveNames() {
		aep, err := engine.AEP(*lat, *lon, *hubHeight, name, *availability, window)
		if err != nil {
			log.Fatalf("AEP for %s failed: %v", name, err)
		}
		fmt.Printf("\nAEP %-28s hub %.0f m  alpha %.4f\n", name, *hubHeight, aep.ShearExponent)
		fmt.Printf("  Weibull estimate %10.1f MWh/year\n", aep.Result.EnergyMWh)
		fmt.Printf("  hourly record    %10.1f MWh\n", aep.EmpiricalMWh)
	}
}

func loadGrid(dir string) *grid.Dataset {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("Reading input directory: %v", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".csv") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	ds, err := grid.Load(paths)
	if err != nil {
		log.Fatalf("Loading wind data: %v", err)
	}
	return ds
}

func loadCurve(path string) model.PowerCurve {
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Opening %s: %v", path, err)
	}
	defer f.Close()

	curve, err := ingest.NewPowerCurveParser(name).Parse(f)
	if err != nil {
		log.Fatalf("Parsing %s: %v", path, err)
	}
	return curve
}

func splitPaths(flagVal string) []string {
	var paths []string
	for _, p := range strings.Split(flagVal, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func yearWindow(year int) *model.TimeRange {
	if year == 0 {
		return nil
	}
	return &model.TimeRange{
		Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC),
	}
}

var sectorNames = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

func printRose(rose analyzer.Rose) {
	if rose.Sectors != len(sectorNames) {
		return
	}
	fmt.Println("  wind rose:")
	for i, freq := range rose.Frequency {
		if freq == 0 {
			continue
		}
		fmt.Printf("    %-3s %5.1f%% %s\n", sectorNames[i], freq*100, strings.Repeat("#", int(freq*100)))
	}
}
