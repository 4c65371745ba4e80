// Package server implements the HTTP and WebSocket transport for RoomChat.
//
// The implementation is organized into specialized files for configuration,
// hub management, clients, routing, and HTTP handlers. Room, session, and
// presence semantics live in the chat package; this package owns connection
// lifecycle and frame delivery.
package server
