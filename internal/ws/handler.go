package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"wind_assess/internal/analyzer"
	"wind_assess/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Per-client analysis rate limit. Point analyses walk the full multi-year
// record, so clients get a small sustained budget with a burst allowance.
const (
	analysesPerSecond = 2
	analysisBurst     = 5
)

// Handler manages WebSocket connections and routes analysis requests to the
// engine.
type Handler struct {
	hub    *Hub
	engine *analyzer.Engine
}

func NewHandler(hub *Hub, engine *analyzer.Engine) *Handler {
	return &Handler{hub: hub, engine: engine}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.sendDataLoaded(client)
	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	limiter := rate.NewLimiter(rate.Limit(analysesPerSecond), analysisBurst)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(c, limiter, msg)
	}
}

func (h *Handler) handleMessage(c *Client, limiter *rate.Limiter, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.sendError(c, fmt.Sprintf("invalid message: %v", err))
		return
	}

	switch env.Type {
	case TypeListCurves:
		h.reply(c, TypeCurves, CurvesPayload{Curves: h.engine.CurveNames()})

	case TypeAnalyzePoint:
		if !limiter.Allow() {
			h.sendError(c, "analysis rate limit exceeded")
			return
		}
		var p AnalyzePointPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.sendError(c, fmt.Sprintf("invalid analyze:point payload: %v", err))
			return
		}
		window, err := parseWindow(p.Start, p.End)
		if err != nil {
			h.sendError(c, err.Error())
			return
		}
		// Successful reports reach clients through the engine callback
		// broadcast, the same way the engine's other consumers see them.
		if _, err := h.engine.PointReport(p.Lat, p.Lon, p.Height, window); err != nil {
			h.sendError(c, err.Error())
			return
		}

	case TypeAnalyzeAEP:
		if !limiter.Allow() {
			h.sendError(c, "analysis rate limit exceeded")
			return
		}
		var p AnalyzeAEPPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.sendError(c, fmt.Sprintf("invalid analyze:aep payload: %v", err))
			return
		}
		window, err := parseWindow(p.Start, p.End)
		if err != nil {
			h.sendError(c, err.Error())
			return
		}
		if _, err := h.engine.AEP(p.Lat, p.Lon, p.HubHeight, p.Curve, p.Availability, window); err != nil {
			h.sendError(c, err.Error())
			return
		}

	default:
		h.sendError(c, fmt.Sprintf("unknown message type %q", env.Type))
	}
}

func (h *Handler) sendDataLoaded(c *Client) {
	ds := h.engine.Dataset()
	tr := ds.TimeRange()
	h.reply(c, TypeDataLoaded, DataLoadedPayload{
		TimeRange: TimeRangeInfo{
			Start: tr.Start.Format(time.RFC3339),
			End:   tr.End.Format(time.RFC3339),
		},
		Lats:    ds.Lats,
		Lons:    ds.Lons,
		Heights: ds.Heights,
		Curves:  h.engine.CurveNames(),
	})
}

func (h *Handler) reply(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		log.Printf("Error marshaling %s: %v", msgType, err)
		return
	}
	c.Send(msg)
}

func (h *Handler) sendError(c *Client, message string) {
	h.reply(c, TypeError, ErrorPayload{Message: message})
}

// parseWindow builds an optional analysis time window from RFC3339 bounds.
// Both empty means the full record.
func parseWindow(start, end string) (*model.TimeRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("both start and end are required for a time window")
	}
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start timestamp: %v", err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end timestamp: %v", err)
	}
	return &model.TimeRange{Start: s, End: e}, nil
}
