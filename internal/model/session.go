package model

import "time"

// RoomSession is the denormalized read model handed to the client on
// session fetch and socket connect. Cached per user; never authoritative —
// it must stay reconstructible from Room + RoomUser + RoomQuestion.
type RoomSession struct {
	RoomID    string     `json:"roomId"`
	Questions []Question `json:"questions"`
	UserColor string     `json:"userColor"`
	Duration  *int       `json:"duration"`
	CreatedAt time.Time  `json:"createdAt"`
	JoinedAt  time.Time  `json:"joinedAt"`
}

// SessionResponse is the GET /sessions payload.
type SessionResponse struct {
	Username string       `json:"username"`
	Provider string       `json:"provider"`
	Picture  *string      `json:"picture,omitempty"`
	Room     *RoomSession `json:"room,omitempty"`
}
