package model

import "time"

// ChatEvent tags the variant of a chat envelope. Clients author message,
// submit and accepted; the server synthesizes join, leave and complete.
type ChatEvent string

const (
	EventMessage  ChatEvent = "message"
	EventJoin     ChatEvent = "join"
	EventLeave    ChatEvent = "leave"
	EventSubmit   ChatEvent = "submit"
	EventAccepted ChatEvent = "accepted"
	EventComplete ChatEvent = "complete"
)

// Message is the single envelope shared by chat and system messages so
// clients render both uniformly.
type Message struct {
	Timestamp int64     `json:"timestamp"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	ChatEvent ChatEvent `json:"chatEvent"`
	Color     string    `json:"color"`
}

// NewMessage stamps an envelope with the current wall clock in epoch
// milliseconds, matching what clients produce.
func NewMessage(username, body string, event ChatEvent, color string) Message {
	return Message{
		Timestamp: time.Now().UnixMilli(),
		Username:  username,
		Body:      body,
		ChatEvent: event,
		Color:     color,
	}
}
