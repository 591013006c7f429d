package model

import (
	"time"

	"github.com/uptrace/bun"
)

// User is an authenticated player. RoomID is the current-room pointer; a
// user belongs to at most one room at any time.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID        string    `json:"id" bun:"id,pk"`
	Username  string    `json:"username" bun:"username,notnull,unique"`
	Provider  string    `json:"provider" bun:"provider"`
	Picture   *string   `json:"picture,omitempty" bun:"picture"`
	RoomID    *string   `json:"roomId" bun:"room_id"`
	CreatedAt time.Time `json:"createdAt" bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `json:"updatedAt" bun:"updated_at,notnull,default:current_timestamp"`
}
