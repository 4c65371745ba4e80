// Package chat routes inbound client frames to registry operations.
package chat

import (
	"encoding/json"
	"log"
)

// Router is the contract boundary with the transport: it decodes one
// inbound frame per call and dispatches it against the registry. A
// frame that fails to decode is dropped without closing the connection;
// the protocol has no error channel for malformed input.
type Router struct {
	registry *Registry
}

// NewRouter creates a router dispatching into registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Dispatch handles a single inbound frame from s.
func (rt *Router) Dispatch(s *Session, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		log.Printf("Dropping malformed frame from session %s: %v", s.ID(), err)
		return
	}

	switch env.Event {
	case EventJoin:
		var req JoinRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("Dropping malformed join payload from session %s: %v", s.ID(), err)
			return
		}
		rt.registry.Join(s, req.Username, req.Room)

	case EventSendMessage:
		var req SendRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("Dropping malformed sendMessage payload from session %s: %v", s.ID(), err)
			return
		}
		rt.registry.SendMessage(s, req.Text)

	case EventCreateRoom:
		var name string
		if err := json.Unmarshal(env.Data, &name); err != nil {
			log.Printf("Dropping malformed createRoom payload from session %s: %v", s.ID(), err)
			return
		}
		rt.registry.CreateRoom(name)

	case EventGetRooms:
		s.outbox.Send(EventUpdateRooms, rt.registry.RoomNames())

	default:
		log.Printf("Dropping unknown event %q from session %s", env.Event, s.ID())
	}
}
