// Package testhelpers provides common utilities and helper functions for testing the RoomChat server.
//
// This package contains reusable test utilities that are shared across unit and integration tests.
// It provides functions for dialing WebSocket connections, exchanging protocol event frames, and
// asserting response properties to reduce code duplication in test files.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/roomchat/internal/chat"
)

// BuildWebSocketURL converts a test server base URL into its WebSocket endpoint URL.
func BuildWebSocketURL(baseURL string) string {
	return "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"
}

// ConnectWebSocket creates a WebSocket connection to the specified URL,
// presenting the given origin. It returns the connection or an error if
// the connection fails.
func ConnectWebSocket(url, origin string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// SendEvent encodes one protocol event and writes it as a single text frame.
func SendEvent(conn *websocket.Conn, event string, data any) error {
	frame, err := chat.EncodeEvent(event, data)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// ReadEvent reads the next frame from the connection within the timeout
// and decodes it as a protocol envelope.
func ReadEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) chat.Envelope {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}

	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read event frame: %v", err)
	}

	var env chat.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("Failed to decode event frame %q: %v", frame, err)
	}
	return env
}

// ExpectEvent reads the next frame and fails the test unless it carries
// the expected event name. It returns the raw payload for decoding.
func ExpectEvent(t *testing.T, conn *websocket.Conn, event string, timeout time.Duration) json.RawMessage {
	t.Helper()

	env := ReadEvent(t, conn, timeout)
	if env.Event != event {
		t.Fatalf("Expected event %q, got %q (payload %s)", event, env.Event, env.Data)
	}
	return env.Data
}

// DecodeInto unmarshals a raw event payload into target.
func DecodeInto(t *testing.T, data json.RawMessage, target any) {
	t.Helper()

	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("Failed to decode payload %s: %v", data, err)
	}
}

// ExpectNoEvent fails the test if any frame arrives within the timeout.
func ExpectNoEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	_, frame, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("Expected no event, but received %s", frame)
	}
	if netErr, ok := err.(interface{ Timeout() bool }); !ok || !netErr.Timeout() {
		t.Fatalf("Unexpected error while waiting for absence of events: %v", err)
	}
}

// JoinRoom sends a join event and consumes the loadMessages and
// updateUsers frames the relay answers with, returning the history
// snapshot and the presence list.
func JoinRoom(t *testing.T, conn *websocket.Conn, username, room string) ([]chat.Message, []string) {
	t.Helper()

	if err := SendEvent(conn, chat.EventJoin, chat.JoinRequest{Username: username, Room: room}); err != nil {
		t.Fatalf("Failed to send join event: %v", err)
	}

	var history []chat.Message
	DecodeInto(t, ExpectEvent(t, conn, chat.EventLoadMessages, 2*time.Second), &history)

	var presence []string
	DecodeInto(t, ExpectEvent(t, conn, chat.EventUpdateUsers, 2*time.Second), &presence)

	return history, presence
}

// MakeRequest creates and executes an HTTP request, returning the response.
// It includes a 5-second timeout and fails the test if the request cannot be
// created or executed successfully.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// AssertStatusCode checks if the HTTP response has the expected status code.
// It fails the test with a descriptive error message if the status codes don't match.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}

// AssertContentType checks if the HTTP response has the expected Content-Type header.
// It fails the test with a descriptive error message if the content types don't match.
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	contentType := resp.Header.Get("Content-Type")
	if contentType != expected {
		t.Errorf("Expected content type %s, got %s", expected, contentType)
	}
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}
