// Package chat implements rooms: named channels owning an ordered
// message history and the set of currently joined sessions.
package chat

import (
	"sort"
	"sync"
)

// Room is a named channel. Each room carries its own mutex so mutation
// of one room never serializes with unrelated rooms. History append and
// fan-out happen under the same critical section, which is what gives
// every member the same relative message order.
//
// Member usernames are guarded by the Registry lock, so methods that
// read them (hasUsername, admit, withdraw) must be called with it held.
type Room struct {
	name    string
	mu      sync.Mutex
	history []Message
	members map[*Session]struct{}
}

func newRoom(name string) *Room {
	return &Room{
		name:    name,
		members: make(map[*Session]struct{}),
	}
}

// hasUsername reports whether a session other than except currently
// holds username in this room. Matching is case-sensitive.
func (rm *Room) hasUsername(except *Session, username string) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for member := range rm.members {
		if member != except && member.username == username {
			return true
		}
	}
	return false
}

// admit adds s to the room, announces the join to the existing members,
// delivers the history snapshot to s alone, and pushes the recomputed
// presence list to everyone including s.
func (rm *Room) admit(s *Session) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for member := range rm.members {
		member.outbox.Send(EventUserJoined, UserEvent{Username: s.username, Room: rm.name})
	}

	rm.members[s] = struct{}{}

	snapshot := make([]Message, len(rm.history))
	copy(snapshot, rm.history)
	s.outbox.Send(EventLoadMessages, snapshot)

	rm.pushPresenceLocked()
}

// withdraw removes s from the room, announces the departure to the
// remaining members, and pushes the recomputed presence list to them.
// The departing session receives nothing further.
func (rm *Room) withdraw(s *Session) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, ok := rm.members[s]; !ok {
		return
	}
	delete(rm.members, s)

	for member := range rm.members {
		member.outbox.Send(EventUserLeft, UserEvent{Username: s.username, Room: rm.name})
	}

	rm.pushPresenceLocked()
}

// post appends msg to the history and fans it out to every member,
// including the sender.
func (rm *Room) post(msg Message) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.history = append(rm.history, msg)

	for member := range rm.members {
		member.outbox.Send(EventReceiveMessage, msg)
	}
}

func (rm *Room) pushPresenceLocked() {
	names := make([]string, 0, len(rm.members))
	for member := range rm.members {
		names = append(names, member.username)
	}
	sort.Strings(names)

	for member := range rm.members {
		member.outbox.Send(EventUpdateUsers, names)
	}
}
