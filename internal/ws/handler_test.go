package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wind_assess/internal/analyzer"
	"wind_assess/internal/grid"
	"wind_assess/internal/ingest"
	"wind_assess/internal/model"
)

// testEngine builds an engine over a small synthetic grid, wired to a hub
// so successful analyses are broadcast back to clients.
func testEngine(t *testing.T) (*analyzer.Engine, *Hub) {
	t.Helper()
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []ingest.WindRecord
	for i := 0; i < 24; i++ {
		u := 3.0 + 0.2*float64(i)
		for _, lat := range []float64{55.50, 55.75} {
			for _, lon := range []float64{7.75, 8.00} {
				records = append(records, ingest.WindRecord{
					Time: base.Add(time.Duration(i) * time.Hour),
					Lat:  lat, Lon: lon,
					U10: u, U100: 1.3 * u,
				})
			}
		}
	}
	ds, err := grid.FromRecords(records)
	require.NoError(t, err)

	hub := NewHub()
	engine := analyzer.New(ds, NewNotifier(hub))
	engine.AddCurve(model.PowerCurve{
		Name: "test-turbine",
		Points: []model.PowerCurvePoint{
			{SpeedMS: 0, PowerKW: 0},
			{SpeedMS: 10, PowerKW: 1000},
			{SpeedMS: 25, PowerKW: 1000},
		},
	})
	return engine, hub
}

// dialHandler sets up a test server with the handler and returns a WS connection.
func dialHandler(t *testing.T, handler *Handler) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

// readEnvelope reads the next JSON message from the connection.
func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	msg, err := NewEnvelope(msgType, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))
}

func TestHandler_DataLoadedOnConnect(t *testing.T) {
	engine, hub := testEngine(t)
	conn, cleanup := dialHandler(t, NewHandler(hub, engine))
	defer cleanup()

	env := readEnvelope(t, conn)
	require.Equal(t, TypeDataLoaded, env.Type)

	var p DataLoadedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, []float64{55.50, 55.75}, p.Lats)
	assert.Equal(t, []float64{10, 100}, p.Heights)
	assert.Equal(t, []string{"test-turbine"}, p.Curves)
	assert.Equal(t, "2000-01-01T00:00:00Z", p.TimeRange.Start)
}

func TestHandler_ListCurves(t *testing.T) {
	engine, hub := testEngine(t)
	conn, cleanup := dialHandler(t, NewHandler(hub, engine))
	defer cleanup()

	readEnvelope(t, conn) // data:loaded

	send(t, conn, TypeListCurves, nil)
	env := readEnvelope(t, conn)
	require.Equal(t, TypeCurves, env.Type)

	var p CurvesPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, []string{"test-turbine"}, p.Curves)
}

func TestHandler_AnalyzePoint(t *testing.T) {
	engine, hub := testEngine(t)
	conn, cleanup := dialHandler(t, NewHandler(hub, engine))
	defer cleanup()

	readEnvelope(t, conn) // data:loaded

	send(t, conn, TypeAnalyzePoint, AnalyzePointPayload{Lat: 55.6, Lon: 7.9, Height: 100})
	env := readEnvelope(t, conn)
	require.Equal(t, TypePointReport, env.Type)

	var p PointReportPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, 24, p.Samples)
	assert.Greater(t, p.WeibullK, 0.0)
	assert.Greater(t, p.WeibullA, 0.0)
	assert.Len(t, p.RoseFrequency, 16)
}

func TestHandler_AnalyzeAEP(t *testing.T) {
	engine, hub := testEngine(t)
	conn, cleanup := dialHandler(t, NewHandler(hub, engine))
	defer cleanup()

	readEnvelope(t, conn) // data:loaded

	send(t, conn, TypeAnalyzeAEP, AnalyzeAEPPayload{
		Lat: 55.6, Lon: 7.9, HubHeight: 120, Curve: "test-turbine",
	})
	env := readEnvelope(t, conn)
	require.Equal(t, TypeAEPReport, env.Type)

	var p AEPReportPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, "test-turbine", p.Curve)
	assert.Equal(t, 120.0, p.HubHeight)
	assert.Greater(t, p.AEPMWh, 0.0)
	assert.Greater(t, p.ShearExponent, 0.0)
}

func TestHandler_AnalyzeErrors(t *testing.T) {
	engine, hub := testEngine(t)
	conn, cleanup := dialHandler(t, NewHandler(hub, engine))
	defer cleanup()

	readEnvelope(t, conn) // data:loaded

	// Out-of-bounds point
	send(t, conn, TypeAnalyzePoint, AnalyzePointPayload{Lat: 10, Lon: 10, Height: 100})
	env := readEnvelope(t, conn)
	require.Equal(t, TypeError, env.Type)

	// Unknown message type
	send(t, conn, "bogus:type", nil)
	env = readEnvelope(t, conn)
	require.Equal(t, TypeError, env.Type)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Contains(t, p.Message, "bogus:type")
}

func TestHandler_RateLimit(t *testing.T) {
	engine, hub := testEngine(t)
	conn, cleanup := dialHandler(t, NewHandler(hub, engine))
	defer cleanup()

	readEnvelope(t, conn) // data:loaded

	// Burst far past the per-client budget
	for i := 0; i < analysisBurst+5; i++ {
		send(t, conn, TypeAnalyzePoint, AnalyzePointPayload{Lat: 55.6, Lon: 7.9, Height: 100})
	}

	limited := false
	for i := 0; i < analysisBurst+5; i++ {
		env := readEnvelope(t, conn)
		if env.Type == TypeError {
			var p ErrorPayload
			require.NoError(t, json.Unmarshal(env.Payload, &p))
			assert.Contains(t, p.Message, "rate limit")
			limited = true
			break
		}
	}
	assert.True(t, limited, "expected at least one rate-limited request")
}
