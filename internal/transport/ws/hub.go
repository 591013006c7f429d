package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Amit91848/Leetwars/internal/model"
)

// Frame is the envelope exchanged over the socket. Message is set for
// chat-message frames; keep-alive frames carry only the event name.
type Frame struct {
	Event   string         `json:"event"`
	Message *model.Message `json:"message,omitempty"`
}

const (
	FrameChatMessage = "chat-message"
	FrameKeepAlive   = "keep-alive"
)

// Hub fans chat frames out over named channels. Every socket is a member
// of two channels: its room's and its user's private one.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[string]*Connection // channel -> socketID -> conn

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *outbound
}

// Connection is one subscribed socket.
type Connection struct {
	SocketID string
	RoomID   string
	UserID   string
	Username string
	Send     chan []byte
}

func (c *Connection) channelNames() [2]string {
	return [2]string{c.RoomID, c.UserID}
}

type outbound struct {
	channel string
	data    []byte
}

func NewHub() *Hub {
	h := &Hub{
		channels:   make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *outbound, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			for _, name := range conn.channelNames() {
				if h.channels[name] == nil {
					h.channels[name] = make(map[string]*Connection)
				}
				h.channels[name][conn.SocketID] = conn
			}
			h.mu.Unlock()
			log.Debug().Str("roomId", conn.RoomID).Str("userId", conn.UserID).
				Msg("socket joined channels")

		case conn := <-h.unregister:
			h.mu.Lock()
			removed := false
			for _, name := range conn.channelNames() {
				sockets, ok := h.channels[name]
				if !ok {
					continue
				}
				if existing, ok := sockets[conn.SocketID]; ok && existing == conn {
					delete(sockets, conn.SocketID)
					removed = true
					if len(sockets) == 0 {
						delete(h.channels, name)
					}
				}
			}
			if removed {
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Debug().Str("roomId", conn.RoomID).Str("userId", conn.UserID).
				Msg("socket left channels")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, conn := range h.channels[msg.channel] {
				select {
				case conn.Send <- msg.data:
				default:
					// Drop frame if the socket buffer is full.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection to its room channel.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from its room channel.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish sends a chat envelope to every socket in the channel. It
// implements service.Broadcaster.
func (h *Hub) Publish(channel string, message model.Message) {
	data, err := json.Marshal(&Frame{Event: FrameChatMessage, Message: &message})
	if err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to encode chat frame")
		return
	}
	h.broadcast <- &outbound{channel: channel, data: data}
}
