package room

import (
	"time"

	"github.com/wfunc/galaxyserver/game"
)

// Broadcaster defines the interface for broadcasting messages to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, data []byte) error
}

// Recorder receives every room creation and every batch of events appended
// to a room's log, in log order.
type Recorder interface {
	RecordRoom(roomID string, playerIDs []string, createdAt time.Time)
	RecordEvents(roomID string, events []game.Event)
}

// Monitor receives session layer measurements.
type Monitor interface {
	SetQueuedPlayers(n int)
	SetActiveRooms(n int)
	ObserveAction(kind, outcome string, elapsed time.Duration)
}

type nopMonitor struct{}

func (nopMonitor) SetQueuedPlayers(int)                          {}
func (nopMonitor) SetActiveRooms(int)                            {}
func (nopMonitor) ObserveAction(string, string, time.Duration) {}
