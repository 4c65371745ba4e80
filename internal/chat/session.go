// Package chat manages per-connection session state, tying a transient
// identity (username, current room) to a live connection's outbox.
package chat

// Outbox delivers one outbound event to a single connection. Send must
// never block; a recipient that cannot accept an event loses that copy
// without affecting delivery to anyone else.
type Outbox interface {
	Send(event string, data any)
}

// Session is the server-side state for one live client connection.
// A session holds at most one room at a time; username and room are
// set at join time and cleared on disconnect. Both fields are guarded
// by the owning Registry's lock.
type Session struct {
	id     string
	outbox Outbox

	username string
	room     string
}

// ID returns the opaque identifier assigned at connection time.
func (s *Session) ID() string {
	return s.id
}
