package service

import "errors"

var (
	// ErrInvalidFilter rejects unsupported question filter kinds.
	ErrInvalidFilter = errors.New("invalid question filter kind")
	// ErrRoomNotFound means the requested room (or the caller's current
	// room) does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNotInRoom means the user has no current room. Timer callbacks
	// racing an explicit exit treat it as benign.
	ErrNotInRoom = errors.New("user not in any room")
	// ErrQuestionNotFound means a title slug did not resolve.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnauthenticated rejects requests without a valid session.
	ErrUnauthenticated = errors.New("unauthenticated request")
	// ErrInvalidCredentials rejects malformed login requests.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken rejects expired or malformed session tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)
