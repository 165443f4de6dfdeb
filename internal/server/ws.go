package server

import (
	"context"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/matthewbaird/sheetforge/internal/gen"
	"github.com/matthewbaird/sheetforge/internal/progress"
)

// handleProgressWS streams generation progress events to a websocket
// client. Each connection subscribes to the bus under a unique name and
// unsubscribes when it closes.
func (s *Server) handleProgressWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("progress ws: accept: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	events := make(chan gen.Event, 64)
	name := "ws-" + uuid.NewString()
	s.bus.Subscribe(name, progress.HandlerFunc(func(_ context.Context, ev gen.Event) error {
		select {
		case events <- ev:
		default:
			// slow client, drop rather than stall the bus
		}
		return nil
	}))
	defer s.bus.Unsubscribe(name)

	// Reads are discarded; the socket exists to push events. The read
	// loop still runs so close frames terminate the connection.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		case <-closed:
			return
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
	}
}
