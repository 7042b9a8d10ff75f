package broadcast

import (
	"errors"

	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/room"
	"github.com/wfunc/galaxyserver/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

type Broadcaster interface {
	BroadcastToRoom(roomID string, data []byte) error
	PingAll() int
}

// RoomBroadcaster fans snapshots out to subscribed sessions. Delivery is a
// non-blocking enqueue; a session whose queue is full is closed so that one
// slow client never stalls a room.
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	// Get a thread-safe copy of the sessions
	for _, s := range r.GetSessions() {
		b.deliver(s, data)
	}
	return nil
}

// PingAll queues a keepalive on every connected session and returns how
// many accepted it.
func (b *RoomBroadcaster) PingAll() int {
	n := 0
	for _, s := range b.sessionManager.All() {
		if err := s.Ping(); err != nil {
			b.drop(s, err)
			continue
		}
		n++
	}
	return n
}

func (b *RoomBroadcaster) deliver(s *session.Session, data []byte) {
	if err := s.Send(data); err != nil {
		b.drop(s, err)
	}
}

func (b *RoomBroadcaster) drop(s *session.Session, err error) {
	if errors.Is(err, session.ErrSendBufferFull) {
		logger.Log.Warnw("Dropping slow client", "player", s.PlayerID, "session", s.ID, "room", s.RoomID())
		s.Close()
	}
}
