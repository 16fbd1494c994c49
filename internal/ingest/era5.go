package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// WindRecord is one grid node at one timestamp, carrying the u/v wind
// components at both height levels.
type WindRecord struct {
	Time time.Time
	Lat  float64
	Lon  float64
	U10  float64
	V10  float64
	U100 float64
	V100 float64
}

// ERA5Parser parses ERA5-style CSV exports of 10 m and 100 m wind components.
//
// Expected format:
//
//	time,latitude,longitude,u10,v10,u100,v100
//	2000-01-01T00:00:00Z,55.75,7.75,1.2,0.3,2.0,0.5
type ERA5Parser struct{}

func (p *ERA5Parser) Parse(r io.Reader) ([]WindRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateERA5Header(header); err != nil {
		return nil, err
	}

	var records []WindRecord
	lineNum := 1 // header was line 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		rec, err := parseERA5Record(record, lineNum)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func validateERA5Header(header []string) error {
	expected := []string{"time", "latitude", "longitude", "u10", "v10", "u100", "v100"}
	if len(header) < len(expected) {
		return fmt.Errorf("expected %d columns, got %d", len(expected), len(header))
	}
	for i, col := range expected {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}
	return nil
}

func parseERA5Record(record []string, lineNum int) (WindRecord, error) {
	if len(record) < 7 {
		return WindRecord{}, fmt.Errorf("line %d: expected 7 fields, got %d", lineNum, len(record))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(record[0]))
	if err != nil {
		return WindRecord{}, fmt.Errorf("line %d: parsing timestamp %q: %w", lineNum, record[0], err)
	}

	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return WindRecord{}, fmt.Errorf("line %d: parsing %s %q: %w", lineNum, []string{"latitude", "longitude", "u10", "v10", "u100", "v100"}[i], record[i+1], err)
		}
		vals[i] = v
	}

	return WindRecord{
		Time: ts,
		Lat:  vals[0],
		Lon:  vals[1],
		U10:  vals[2],
		V10:  vals[3],
		U100: vals[4],
		V100: vals[5],
	}, nil
}
