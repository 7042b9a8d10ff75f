package broadcast

import (
	"errors"
	"sync"
	"testing"

	"github.com/wfunc/galaxyserver/room"
	"github.com/wfunc/galaxyserver/session"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	mutex  sync.Mutex
	closed bool
}

func (m *MockConnection) Send(data []byte) error { return nil }
func (m *MockConnection) Ping() error            { return nil }
func (m *MockConnection) RemoteAddr() string     { return "127.0.0.1:0" }

func (m *MockConnection) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	return nil
}

func setup(t *testing.T, buffer int) (*RoomBroadcaster, *room.Room, []*session.Session) {
	t.Helper()
	rooms := room.NewManager(room.Options{Seed: 3})
	sessions := session.NewManager()
	b := NewRoomBroadcaster(rooms, sessions)
	rooms.SetBroadcaster(b)

	var seated []*session.Session
	var formed *room.Room
	for _, id := range []string{"p1", "p2"} {
		s := session.NewSession("session-"+id, id, "secret", &MockConnection{}, buffer)
		sessions.Add(s)
		r, err := rooms.Subscribe(s)
		if err != nil {
			t.Fatalf("Subscribe(%s) failed: %v", id, err)
		}
		if r != nil {
			formed = r
		}
		seated = append(seated, s)
	}
	if formed == nil {
		t.Fatal("Expected a room to form")
	}
	return b, formed, seated
}

func TestBroadcastToRoom(t *testing.T) {
	b, r, _ := setup(t, 4)

	if err := b.BroadcastToRoom(r.ID, []byte("{}")); err != nil {
		t.Fatalf("BroadcastToRoom failed: %v", err)
	}
	if err := b.BroadcastToRoom("missing", []byte("{}")); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestBroadcastToRoom_DropsSlowClient(t *testing.T) {
	// The initial snapshot fills a one slot queue, so the next one overflows.
	b, r, seated := setup(t, 1)

	if err := b.BroadcastToRoom(r.ID, []byte("{}")); err != nil {
		t.Fatalf("BroadcastToRoom failed: %v", err)
	}
	for _, s := range seated {
		select {
		case <-s.Done():
		default:
			t.Errorf("slow session %s should have been closed", s.PlayerID)
		}
	}
}

func TestPingAll(t *testing.T) {
	b, _, seated := setup(t, 4)
	if got := b.PingAll(); got != len(seated) {
		t.Errorf("Expected %d pings, got %d", len(seated), got)
	}
}
