// Package chat coordinates sessions and rooms through the Registry,
// the single owner of all relay state for one process.
package chat

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// timestampLayout renders minute-granularity wall clock times the way
// clients display them, e.g. "3:04 PM".
const timestampLayout = "3:04 PM"

// Registry owns every session and room in the process. It is
// constructed once and passed by reference; there is no package-level
// instance. The registry lock guards the session and room maps plus
// each session's identity fields; each room guards its own history and
// membership so unrelated rooms never serialize with each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	rooms    map[string]*Room
	order    []string

	idMu   sync.Mutex
	lastID int64

	now func() time.Time
}

// NewRegistry creates an empty registry with no rooms and no sessions.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		rooms:    make(map[string]*Room),
		now:      time.Now,
	}
}

// Connect allocates a session for a freshly established connection.
// The session has no username or room until it joins.
func (r *Registry) Connect(outbox Outbox) *Session {
	s := &Session{
		id:     uuid.NewString(),
		outbox: outbox,
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	sessionCount := len(r.sessions)
	r.mu.Unlock()

	log.Printf("Session %s connected. Total sessions: %d", s.id, sessionCount)
	return s
}

// Join places s in roomName under username, creating the room on
// demand. If another session in the room already holds the username,
// the requester alone is told usernameTaken and nothing changes. On
// success the other members learn of the join, the joiner receives the
// history snapshot, and everyone in the room receives the updated
// presence list. A session already in a room leaves it first.
func (r *Registry) Join(s *Session, username, roomName string) {
	username = strings.TrimSpace(username)
	roomName = strings.TrimSpace(roomName)
	if s == nil || username == "" || roomName == "" {
		return
	}

	r.mu.Lock()
	room, _ := r.ensureRoomLocked(roomName)

	if room.hasUsername(s, username) {
		r.mu.Unlock()
		log.Printf("Session %s rejected joining %q: username %q taken", s.id, roomName, username)
		s.outbox.Send(EventUsernameTaken, nil)
		return
	}

	if prev, ok := r.rooms[s.room]; ok && s.room != "" {
		prev.withdraw(s)
	}

	s.username = username
	s.room = roomName
	room.admit(s)
	r.mu.Unlock()

	log.Printf("Session %s joined room %q as %q", s.id, roomName, username)
}

// SendMessage appends a message from s to its current room and fans it
// out to every member, including the sender. A session with no room
// cannot speak; the request is dropped without signaling the client.
func (r *Registry) SendMessage(s *Session, text string) {
	if s == nil {
		return
	}

	r.mu.RLock()
	username, roomName := s.username, s.room
	room := r.rooms[roomName]
	r.mu.RUnlock()

	if roomName == "" || room == nil {
		log.Printf("Dropping message from session %s: not joined to any room", s.id)
		return
	}

	room.post(Message{
		ID:        r.nextID(),
		Username:  username,
		Room:      roomName,
		Text:      text,
		Timestamp: r.now().Format(timestampLayout),
	})
}

// CreateRoom guarantees a room named name exists. Creating a room that
// already exists is a silent no-op; when a room is actually created,
// every connected session is told roomCreated.
func (r *Registry) CreateRoom(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	r.mu.Lock()
	_, created := r.ensureRoomLocked(name)
	var everyone []*Session
	if created {
		everyone = make([]*Session, 0, len(r.sessions))
		for _, s := range r.sessions {
			everyone = append(everyone, s)
		}
	}
	r.mu.Unlock()

	if !created {
		return
	}

	log.Printf("Room %q created", name)
	for _, s := range everyone {
		s.outbox.Send(EventRoomCreated, name)
	}
}

// RoomNames returns every known room name in creation order.
func (r *Registry) RoomNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Disconnect removes s from the registry and, if it was joined to a
// room, from that room's membership, notifying the remaining members.
// Rooms persist with empty membership after everyone leaves.
func (r *Registry) Disconnect(s *Session) {
	if s == nil {
		return
	}

	r.mu.Lock()
	if _, ok := r.sessions[s.id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, s.id)
	sessionCount := len(r.sessions)

	if room, ok := r.rooms[s.room]; ok && s.room != "" {
		room.withdraw(s)
	}
	s.username = ""
	s.room = ""
	r.mu.Unlock()

	log.Printf("Session %s disconnected. Total sessions: %d", s.id, sessionCount)
}

// ensureRoomLocked is the single creation primitive behind both join
// auto-creation and explicit createRoom. Caller must hold the registry
// lock. The second return reports whether the room was created now.
func (r *Registry) ensureRoomLocked(name string) (*Room, bool) {
	if room, ok := r.rooms[name]; ok {
		return room, false
	}
	room := newRoom(name)
	r.rooms[name] = room
	r.order = append(r.order, name)
	return room, true
}

// nextID derives a message id from wall-clock milliseconds, clamped so
// ids never decrease within the process.
func (r *Registry) nextID() int64 {
	r.idMu.Lock()
	defer r.idMu.Unlock()

	id := r.now().UnixMilli()
	if id < r.lastID {
		id = r.lastID
	}
	r.lastID = id
	return id
}
