package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wfunc/galaxyserver/network"
)

var (
	ErrSendBufferFull = errors.New("session send buffer full")
	ErrSessionClosed  = errors.New("session closed")
)

// frame is one queued write; ping frames carry no data.
type frame struct {
	data []byte
	ping bool
}

// Session is one subscribed client. Writes are queued and drained by
// WritePump so that producers never block on a slow peer.
type Session struct {
	ID        string
	PlayerID  string
	Secret    string
	Conn      network.Connection
	CreatedAt time.Time

	send      chan frame
	done      chan struct{}
	closeOnce sync.Once

	mutex      sync.RWMutex
	roomID     string
	lastActive time.Time
}

func NewSession(id, playerID, secret string, conn network.Connection, buffer int) *Session {
	if buffer <= 0 {
		buffer = 1
	}
	now := time.Now()
	return &Session{
		ID:         id,
		PlayerID:   playerID,
		Secret:     secret,
		Conn:       conn,
		CreatedAt:  now,
		lastActive: now,
		send:       make(chan frame, buffer),
		done:       make(chan struct{}),
	}
}

func (s *Session) RoomID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID
}

func (s *Session) SetRoomID(roomID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.roomID = roomID
}

func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

func (s *Session) touch() {
	s.mutex.Lock()
	s.lastActive = time.Now()
	s.mutex.Unlock()
}

// Send enqueues one snapshot without blocking.
func (s *Session) Send(data []byte) error {
	return s.enqueue(frame{data: data})
}

// Ping enqueues a keepalive.
func (s *Session) Ping() error {
	return s.enqueue(frame{ping: true})
}

func (s *Session) enqueue(f frame) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.send <- f:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// WritePump writes queued frames to the connection in order until ctx is
// cancelled, the session is closed or a write fails.
func (s *Session) WritePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrSessionClosed
		case f := <-s.send:
			var err error
			if f.ping {
				err = s.Conn.Ping()
			} else {
				err = s.Conn.Send(f.data)
			}
			if err != nil {
				return err
			}
			s.touch()
		}
	}
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.Conn.Close()
	})
	return err
}

// Manager indexes every connected session, queued or playing.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

// Idle returns the sessions with no successful write since cutoff.
func (m *Manager) Idle(cutoff time.Time) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.LastActive().Before(cutoff) {
			result = append(result, session)
		}
	}
	return result
}

func (m *Manager) All() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
