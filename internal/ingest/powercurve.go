package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wind_assess/internal/model"
)

// PowerCurveParser parses two-column turbine power curve CSVs, e.g. the
// NREL reference turbine files. Column detection matches on header names
// containing "wind speed"/"windspeed" (or starting with "v") and "power",
// falling back to the first two columns when detection fails.
type PowerCurveParser struct {
	// Name to assign to the parsed curve, typically the turbine model.
	Name string
}

func NewPowerCurveParser(name string) *PowerCurveParser {
	return &PowerCurveParser{Name: name}
}

func (p *PowerCurveParser) Parse(r io.Reader) (model.PowerCurve, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return model.PowerCurve{}, fmt.Errorf("reading CSV header: %w", err)
	}

	speedCol, powerCol := detectCurveColumns(header)

	curve := model.PowerCurve{Name: p.Name}
	lineNum := 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.PowerCurve{}, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}
		if len(record) <= speedCol || len(record) <= powerCol {
			return model.PowerCurve{}, fmt.Errorf("line %d: expected at least %d fields, got %d", lineNum, max(speedCol, powerCol)+1, len(record))
		}

		speed, err := strconv.ParseFloat(strings.TrimSpace(record[speedCol]), 64)
		if err != nil {
			return model.PowerCurve{}, fmt.Errorf("line %d: parsing speed %q: %w", lineNum, record[speedCol], err)
		}
		power, err := strconv.ParseFloat(strings.TrimSpace(record[powerCol]), 64)
		if err != nil {
			return model.PowerCurve{}, fmt.Errorf("line %d: parsing power %q: %w", lineNum, record[powerCol], err)
		}

		curve.Points = append(curve.Points, model.PowerCurvePoint{SpeedMS: speed, PowerKW: power})
	}

	if err := validateCurve(curve); err != nil {
		return model.PowerCurve{}, err
	}
	return curve, nil
}

// detectCurveColumns returns the (speed, power) column indexes.
func detectCurveColumns(header []string) (int, int) {
	speedCol, powerCol := -1, -1
	for i, col := range header {
		lower := strings.ToLower(strings.TrimSpace(col))
		if strings.Contains(lower, "wind speed") || strings.Contains(lower, "windspeed") || strings.HasPrefix(lower, "v") {
			speedCol = i
		}
		if strings.Contains(lower, "power") {
			powerCol = i
		}
	}
	if speedCol < 0 || powerCol < 0 {
		return 0, 1
	}
	return speedCol, powerCol
}

// validateCurve enforces the strictly-increasing speed axis.
func validateCurve(curve model.PowerCurve) error {
	for i := 1; i < len(curve.Points); i++ {
		if curve.Points[i].SpeedMS <= curve.Points[i-1].SpeedMS {
			return fmt.Errorf("curve speeds must be strictly increasing: %.2f after %.2f",
				curve.Points[i].SpeedMS, curve.Points[i-1].SpeedMS)
		}
	}
	return nil
}
