package models

import (
	"gorm.io/gorm"
)

// GormSession 游戏会话模型
type GormSession struct {
	gorm.Model
	RoomID    string `gorm:"uniqueIndex;not null"`
	PlayerIDs string `gorm:"type:jsonb;not null"`
}

func (GormSession) TableName() string { return "sessions" }

// GormSessionEvent 会话事件模型
type GormSessionEvent struct {
	gorm.Model
	RoomID  string `gorm:"uniqueIndex:idx_room_seq;not null"`
	Seq     int    `gorm:"uniqueIndex:idx_room_seq;not null"`
	Type    string `gorm:"not null"`
	Payload string `gorm:"type:jsonb;not null"`
}

func (GormSessionEvent) TableName() string { return "session_events" }
