package models

import (
	"encoding/json"
	"time"
)

// SessionRecord 记录一局游戏的创建
type SessionRecord struct {
	RoomID    string    `json:"room_id"`
	PlayerIDs []string  `json:"player_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRecord is one archived log entry. Seq is the entry's index in the
// room's event log, starting at 0 for the setup event.
type EventRecord struct {
	RoomID     string          `json:"room_id"`
	Seq        int             `json:"seq"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// SessionSummary describes a live room for the admin surface.
type SessionSummary struct {
	RoomID        string    `json:"room_id"`
	PlayerIDs     []string  `json:"player_ids"`
	CurrentPlayer string    `json:"current_player"`
	EventCount    int       `json:"event_count"`
	Subscribers   int       `json:"subscribers"`
	CreatedAt     time.Time `json:"created_at"`
}
