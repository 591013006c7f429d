package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/service"
	"github.com/Amit91848/Leetwars/internal/transport/rest/middleware"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	roomSvc *service.RoomService
}

func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// Create handles POST /rooms. The body is the room settings object itself:
// {questionFilter, difficulty, duration}.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := middleware.GetUsername(r.Context())

	var settings model.RoomSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.roomSvc.CreateRoom(r.Context(), userID, username, settings)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Join handles POST /rooms/{roomId}
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := middleware.GetUsername(r.Context())
	roomID := mux.Vars(r)["roomId"]

	session, err := h.roomSvc.JoinRoomByID(r.Context(), userID, username, roomID)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Exit handles POST /rooms/exit
func (h *RoomHandler) Exit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := middleware.GetUsername(r.Context())

	if err := h.roomSvc.ExitRoom(r.Context(), userID, username); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "exited"})
}

// Players handles GET /rooms/players
func (h *RoomHandler) Players(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	players, err := h.roomSvc.GetPlayers(r.Context(), userID)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, players)
}
