// Package integration contains end-to-end tests for the room protocol:
// joining, presence, message broadcast, and room management over real
// WebSocket connections.
package integration

import (
	"reflect"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/roomchat/internal/chat"
	"github.com/Tyrowin/roomchat/test/testhelpers"
)

// TestJoinAndBroadcastScenario verifies the basic chat flow: two users
// join a room and a message from one reaches both, including the sender.
func TestJoinAndBroadcastScenario(t *testing.T) {
	testServer, wsURL := startRelay(t, nil)

	alice := dial(t, wsURL, testServer.URL)
	bob := dial(t, wsURL, testServer.URL)

	history, presence := testhelpers.JoinRoom(t, alice, "alice", "general")
	if len(history) != 0 {
		t.Errorf("Expected empty history for first joiner, got %d messages", len(history))
	}
	if !reflect.DeepEqual(presence, []string{"alice"}) {
		t.Errorf("Expected presence [alice], got %v", presence)
	}

	_, presence = testhelpers.JoinRoom(t, bob, "bob", "general")
	if !reflect.DeepEqual(presence, []string{"alice", "bob"}) {
		t.Errorf("Expected presence [alice bob], got %v", presence)
	}

	// Alice is told about bob's arrival, then gets the refreshed presence list.
	var joined chat.UserEvent
	testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, alice, chat.EventUserJoined, readTimeout), &joined)
	if joined.Username != "bob" || joined.Room != "general" {
		t.Errorf("Unexpected userJoined payload %+v", joined)
	}
	var alicePresence []string
	testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, alice, chat.EventUpdateUsers, readTimeout), &alicePresence)
	if !reflect.DeepEqual(alicePresence, []string{"alice", "bob"}) {
		t.Errorf("Expected presence [alice bob], got %v", alicePresence)
	}

	if err := testhelpers.SendEvent(alice, chat.EventSendMessage, chat.SendRequest{Text: "hi"}); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	for name, conn := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		var msg chat.Message
		testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, conn, chat.EventReceiveMessage, readTimeout), &msg)
		if msg.Username != "alice" || msg.Text != "hi" || msg.Room != "general" {
			t.Errorf("%s received unexpected message %+v", name, msg)
		}
		if msg.ID == 0 || msg.Timestamp == "" {
			t.Errorf("%s received message without id/timestamp: %+v", name, msg)
		}
	}
}

// TestUsernameTakenScenario verifies that a duplicate username in a room
// is rejected with usernameTaken and leaves the room untouched.
func TestUsernameTakenScenario(t *testing.T) {
	testServer, wsURL := startRelay(t, nil)

	alice := dial(t, wsURL, testServer.URL)
	imposter := dial(t, wsURL, testServer.URL)

	testhelpers.JoinRoom(t, alice, "alice", "general")

	if err := testhelpers.SendEvent(imposter, chat.EventJoin, chat.JoinRequest{Username: "alice", Room: "general"}); err != nil {
		t.Fatalf("Failed to send join event: %v", err)
	}
	testhelpers.ExpectEvent(t, imposter, chat.EventUsernameTaken, readTimeout)

	// Alice sees nothing; the rejected join mutated no state.
	testhelpers.ExpectNoEvent(t, alice, 300*time.Millisecond)

	// The imposter can still join under a free name.
	_, presence := testhelpers.JoinRoom(t, imposter, "bob", "general")
	if !reflect.DeepEqual(presence, []string{"alice", "bob"}) {
		t.Errorf("Expected presence [alice bob], got %v", presence)
	}
}

// TestDisconnectScenario verifies that closing a connection informs the
// remaining members with userLeft and a refreshed presence list.
func TestDisconnectScenario(t *testing.T) {
	testServer, wsURL := startRelay(t, nil)

	alice := dial(t, wsURL, testServer.URL)
	bob := dial(t, wsURL, testServer.URL)

	testhelpers.JoinRoom(t, alice, "alice", "general")
	testhelpers.JoinRoom(t, bob, "bob", "general")

	// Drain alice's notifications about bob before closing.
	testhelpers.ExpectEvent(t, alice, chat.EventUserJoined, readTimeout)
	testhelpers.ExpectEvent(t, alice, chat.EventUpdateUsers, readTimeout)

	if err := testhelpers.CloseWebSocket(alice); err != nil {
		t.Fatalf("Failed to close alice's connection: %v", err)
	}

	var left chat.UserEvent
	testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, bob, chat.EventUserLeft, readTimeout), &left)
	if left.Username != "alice" || left.Room != "general" {
		t.Errorf("Unexpected userLeft payload %+v", left)
	}

	var presence []string
	testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, bob, chat.EventUpdateUsers, readTimeout), &presence)
	if !reflect.DeepEqual(presence, []string{"bob"}) {
		t.Errorf("Expected presence [bob], got %v", presence)
	}
}

// TestCreateRoomScenario verifies explicit room creation: every
// connection hears about a new room exactly once, and the room list
// reflects it.
func TestCreateRoomScenario(t *testing.T) {
	testServer, wsURL := startRelay(t, nil)

	creator := dial(t, wsURL, testServer.URL)
	observer := dial(t, wsURL, testServer.URL)

	if err := testhelpers.SendEvent(creator, chat.EventCreateRoom, "dev"); err != nil {
		t.Fatalf("Failed to send createRoom: %v", err)
	}

	for name, c := range map[string]*websocket.Conn{"creator": creator, "observer": observer} {
		var room string
		testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, c, chat.EventRoomCreated, readTimeout), &room)
		if room != "dev" {
			t.Errorf("%s received roomCreated for %q, want dev", name, room)
		}
	}

	// A second create of the same room is silent.
	if err := testhelpers.SendEvent(creator, chat.EventCreateRoom, "dev"); err != nil {
		t.Fatalf("Failed to send duplicate createRoom: %v", err)
	}
	testhelpers.ExpectNoEvent(t, observer, 300*time.Millisecond)

	if err := testhelpers.SendEvent(creator, chat.EventGetRooms, nil); err != nil {
		t.Fatalf("Failed to send getRooms: %v", err)
	}
	var rooms []string
	testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, creator, chat.EventUpdateRooms, readTimeout), &rooms)
	if !reflect.DeepEqual(rooms, []string{"dev"}) {
		t.Errorf("Expected room list [dev], got %v", rooms)
	}
}

// TestHistorySnapshotScenario verifies that a late joiner receives the
// full history once and subsequent messages arrive via broadcast only.
func TestHistorySnapshotScenario(t *testing.T) {
	testServer, wsURL := startRelay(t, nil)

	alice := dial(t, wsURL, testServer.URL)
	testhelpers.JoinRoom(t, alice, "alice", "general")

	for _, text := range []string{"one", "two"} {
		if err := testhelpers.SendEvent(alice, chat.EventSendMessage, chat.SendRequest{Text: text}); err != nil {
			t.Fatalf("Failed to send message %q: %v", text, err)
		}
		var msg chat.Message
		testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, alice, chat.EventReceiveMessage, readTimeout), &msg)
		if msg.Text != text {
			t.Fatalf("Alice received %q, want %q", msg.Text, text)
		}
	}

	bob := dial(t, wsURL, testServer.URL)
	history, _ := testhelpers.JoinRoom(t, bob, "bob", "general")
	if len(history) != 2 || history[0].Text != "one" || history[1].Text != "two" {
		t.Fatalf("Unexpected history snapshot %+v", history)
	}

	// Drain alice's join notifications, then send a live message.
	testhelpers.ExpectEvent(t, alice, chat.EventUserJoined, readTimeout)
	testhelpers.ExpectEvent(t, alice, chat.EventUpdateUsers, readTimeout)

	if err := testhelpers.SendEvent(alice, chat.EventSendMessage, chat.SendRequest{Text: "three"}); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	var msg chat.Message
	testhelpers.DecodeInto(t, testhelpers.ExpectEvent(t, bob, chat.EventReceiveMessage, readTimeout), &msg)
	if msg.Text != "three" {
		t.Errorf("Bob received %q, want %q", msg.Text, "three")
	}
}

// TestSendWithoutJoinIsSilentlyDropped verifies an un-joined client
// cannot speak and receives no error signal.
func TestSendWithoutJoinIsSilentlyDropped(t *testing.T) {
	testServer, wsURL := startRelay(t, nil)

	loner := dial(t, wsURL, testServer.URL)
	member := dial(t, wsURL, testServer.URL)
	testhelpers.JoinRoom(t, member, "alice", "general")

	if err := testhelpers.SendEvent(loner, chat.EventSendMessage, chat.SendRequest{Text: "anyone?"}); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	testhelpers.ExpectNoEvent(t, loner, 300*time.Millisecond)
	testhelpers.ExpectNoEvent(t, member, 300*time.Millisecond)
}
