// Package chat defines the wire-level event names and payload types
// exchanged between the room relay and its transport.
package chat

import (
	"encoding/json"
	"fmt"
)

// Inbound event names accepted by the Router.
const (
	EventJoin        = "join"
	EventSendMessage = "sendMessage"
	EventCreateRoom  = "createRoom"
	EventGetRooms    = "getRooms"
)

// Outbound event names delivered through a session's Outbox.
const (
	EventUsernameTaken  = "usernameTaken"
	EventLoadMessages   = "loadMessages"
	EventReceiveMessage = "receiveMessage"
	EventUserJoined     = "userJoined"
	EventUserLeft       = "userLeft"
	EventUpdateUsers    = "updateUsers"
	EventUpdateRooms    = "updateRooms"
	EventRoomCreated    = "roomCreated"
)

// Message is one immutable chat entry. IDs are non-decreasing per
// process; Timestamp is minute-granularity wall clock at send time.
type Message struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Room      string `json:"room"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// UserEvent is the payload of userJoined and userLeft notifications.
type UserEvent struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// JoinRequest is the payload of an inbound join event.
type JoinRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// SendRequest is the payload of an inbound sendMessage event.
type SendRequest struct {
	Text string `json:"text"`
}

// Envelope is the JSON frame exchanged with the transport. Data holds
// the event-specific payload and is omitted for events without one.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeEvent marshals an outbound event and its payload into a wire
// frame. A nil payload produces a frame without a data field.
func EncodeEvent(event string, data any) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", event, err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
