package ws

import (
	"encoding/json"

	"wind_assess/internal/analyzer"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeAnalyzePoint = "analyze:point"
	TypeAnalyzeAEP   = "analyze:aep"
	TypeListCurves   = "curves:list"

	// Server -> Client
	TypeDataLoaded  = "data:loaded"
	TypePointReport = "report:point"
	TypeAEPReport   = "report:aep"
	TypeCurves      = "curves:catalog"
	TypeError       = "error"
)

// Client -> Server messages

type AnalyzePointPayload struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Height float64 `json:"height"`
	Start  string  `json:"start,omitempty"` // RFC3339, optional window
	End    string  `json:"end,omitempty"`
}

type AnalyzeAEPPayload struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	HubHeight    float64 `json:"hub_height"`
	Curve        string  `json:"curve"`
	Availability float64 `json:"availability,omitempty"`
	Start        string  `json:"start,omitempty"`
	End          string  `json:"end,omitempty"`
}

// Server -> Client messages

type TimeRangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DataLoadedPayload struct {
	TimeRange TimeRangeInfo `json:"time_range"`
	Lats      []float64     `json:"lats"`
	Lons      []float64     `json:"lons"`
	Heights   []float64     `json:"heights"`
	Curves    []string      `json:"curves"`
}

type PointReportPayload struct {
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	Height        float64   `json:"height"`
	Samples       int       `json:"samples"`
	MeanSpeedMS   float64   `json:"mean_speed_ms"`
	MaxSpeedMS    float64   `json:"max_speed_ms"`
	WeibullK      float64   `json:"weibull_k"`
	WeibullA      float64   `json:"weibull_a"`
	ShearExponent float64   `json:"shear_exponent"`
	RoseFrequency []float64 `json:"rose_frequency"`
}

type AEPReportPayload struct {
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	HubHeight     float64 `json:"hub_height"`
	Curve         string  `json:"curve"`
	WeibullK      float64 `json:"weibull_k"`
	WeibullA      float64 `json:"weibull_a"`
	ShearExponent float64 `json:"shear_exponent"`
	AEPMWh        float64 `json:"aep_mwh"`
	EmpiricalMWh  float64 `json:"empirical_mwh"`
	Availability  float64 `json:"availability"`
}

type CurvesPayload struct {
	Curves []string `json:"curves"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func PointReportFromEngine(r analyzer.PointReport) PointReportPayload {
	return PointReportPayload{
		Lat:           r.Lat,
		Lon:           r.Lon,
		Height:        r.Height,
		Samples:       r.Samples,
		MeanSpeedMS:   r.MeanSpeedMS,
		MaxSpeedMS:    r.MaxSpeedMS,
		WeibullK:      r.Fit.K,
		WeibullA:      r.Fit.A,
		ShearExponent: r.ShearExponent,
		RoseFrequency: r.Rose.Frequency,
	}
}

func AEPReportFromEngine(r analyzer.AEPReport) AEPReportPayload {
	return AEPReportPayload{
		Lat:           r.Lat,
		Lon:           r.Lon,
		HubHeight:     r.HubHeight,
		Curve:         r.Result.Curve.Name,
		WeibullK:      r.Result.Fit.K,
		WeibullA:      r.Result.Fit.A,
		ShearExponent: r.ShearExponent,
		AEPMWh:        r.Result.EnergyMWh,
		EmpiricalMWh:  r.EmpiricalMWh,
		Availability:  r.Result.Availability,
	}
}
