package ws

import (
	"log"

	"wind_assess/internal/analyzer"
)

// Notifier implements analyzer.Callback and broadcasts completed analyses
// to all connected clients, so dashboards see each other's results.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) OnPointReport(r analyzer.PointReport) {
	msg, err := NewEnvelope(TypePointReport, PointReportFromEngine(r))
	if err != nil {
		log.Printf("Error marshaling point report: %v", err)
		return
	}
	n.hub.Broadcast(msg)
}

func (n *Notifier) OnAEPReport(r analyzer.AEPReport) {
	msg, err := NewEnvelope(TypeAEPReport, AEPReportFromEngine(r))
	if err != nil {
		log.Printf("Error marshaling AEP report: %v", err)
		return
	}
	n.hub.Broadcast(msg)
}
