package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Amit91848/Leetwars/internal/cache"
	"github.com/Amit91848/Leetwars/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Presence is the slice of the presence coordinator the socket layer
// drives.
type Presence interface {
	HandleConnect(socketID, userID, username string)
	HandleKeepAlive(socketID string)
	HandleDisconnect(socketID string)
}

// Handler upgrades authenticated users with an active room session onto
// the hub.
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	sessions cache.SessionCache
	presence Presence
}

func NewHandler(hub *Hub, authSvc *service.AuthService, sessions cache.SessionCache, presence Presence) *Handler {
	return &Handler{
		hub:      hub,
		authSvc:  authSvc,
		sessions: sessions,
		presence: presence,
	}
}

// ServeWS handles GET /ws. The token travels in the query string because
// browsers cannot set headers on WebSocket upgrades. Users without a
// current room session are rejected before the upgrade.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	session, err := h.sessions.Get(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "session lookup failed", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "no active room", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		SocketID: uuid.New().String(),
		RoomID:   session.RoomID,
		UserID:   claims.UserID,
		Username: claims.Username,
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(conn)
	h.presence.HandleConnect(conn.SocketID, conn.UserID, conn.Username)

	log.Info().Str("roomId", conn.RoomID).Str("userId", conn.UserID).
		Msg("websocket connected")

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.presence.HandleDisconnect(conn.SocketID)
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("userId", conn.UserID).Msg("websocket read error")
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Debug().Err(err).Str("userId", conn.UserID).Msg("dropped malformed frame")
			continue
		}

		switch frame.Event {
		case FrameChatMessage:
			if frame.Message == nil {
				continue
			}
			h.hub.Publish(conn.RoomID, *frame.Message)
		case FrameKeepAlive:
			h.presence.HandleKeepAlive(conn.SocketID)
			if ack, err := json.Marshal(&Frame{Event: FrameKeepAlive}); err == nil {
				select {
				case conn.Send <- ack:
				default:
				}
			}
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
