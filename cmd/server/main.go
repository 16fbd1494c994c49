package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wind_assess/internal/analyzer"
	"wind_assess/internal/grid"
	"wind_assess/internal/ingest"
	"wind_assess/internal/ws"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	inputDir := flag.String("input-dir", envOrDefault("WIND_INPUT_DIR", "input"), "directory containing gridded wind CSV files")
	curveDir := flag.String("curve-dir", envOrDefault("WIND_CURVE_DIR", "curves"), "directory containing turbine power curve CSV files")
	addr := flag.String("addr", envOrDefault("WIND_ADDR", ":8080"), "listen address")
	flag.Parse()

	ds, err := loadGrid(*inputDir)
	if err != nil {
		log.Fatalf("Failed to load wind data: %v", err)
	}
	tr := ds.TimeRange()
	log.Printf("Grid loaded: %d timestamps, %dx%d nodes, %s to %s",
		len(ds.Times), len(ds.Lats), len(ds.Lons),
		tr.Start.Format("2006-01-02"), tr.End.Format("2006-01-02"))

	hub := ws.NewHub()
	notifier := ws.NewNotifier(hub)
	engine := analyzer.New(ds, notifier)

	if err := loadCurves(*curveDir, engine); err != nil {
		log.Printf("Turbine curves: %v", err)
	}
	log.Printf("Power curves registered: %v", engine.CurveNames())

	handler := ws.NewHandler(hub, engine)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)

	log.Printf("Starting server on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}

// loadGrid merges every CSV file in dir into one dataset.
func loadGrid(dir string) (*grid.Dataset, error) {
	paths, err := csvPaths(dir)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ds, err := grid.Load(paths)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d files in %s", len(paths), time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// loadCurves registers every power curve CSV in dir under its base filename.
func loadCurves(dir string, engine *analyzer.Engine) error {
	paths, err := csvPaths(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".csv")
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		curve, err := ingest.NewPowerCurveParser(name).Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		engine.AddCurve(curve)
		log.Printf("  Loaded curve %s (%d points, rated %.0f kW)", name, len(curve.Points), curve.RatedPowerKW())
	}
	return nil
}

func csvPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
