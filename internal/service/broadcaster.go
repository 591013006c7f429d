package service

import "github.com/Amit91848/Leetwars/internal/model"

// Broadcaster fans a message out to every socket joined to a channel
// (a user id or a room id). Implemented by ws.Hub; kept here to avoid an
// import cycle and to allow an in-memory fake in tests.
type Broadcaster interface {
	Publish(channel string, message model.Message)
}
