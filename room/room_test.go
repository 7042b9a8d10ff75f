package room

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/galaxyserver/game"
	"github.com/wfunc/galaxyserver/session"
)

// MockBroadcaster is a test double for the Broadcaster interface.
type MockBroadcaster struct {
	mutex    sync.Mutex
	messages map[string][][]byte
}

func (m *MockBroadcaster) BroadcastToRoom(roomID string, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.messages == nil {
		m.messages = make(map[string][][]byte)
	}
	m.messages[roomID] = append(m.messages[roomID], data)
	return nil
}

func (m *MockBroadcaster) Messages(roomID string) [][]byte {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([][]byte(nil), m.messages[roomID]...)
}

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

func (m *MockConnection) Closed() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.closed
}

type recordingRecorder struct {
	mutex  sync.Mutex
	rooms  []string
	events map[string][]game.Event
}

func (r *recordingRecorder) RecordRoom(roomID string, playerIDs []string, createdAt time.Time) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.rooms = append(r.rooms, roomID)
}

func (r *recordingRecorder) RecordEvents(roomID string, events []game.Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.events == nil {
		r.events = make(map[string][]game.Event)
	}
	r.events[roomID] = append(r.events[roomID], events...)
}

// newTestSession creates a dummy session for testing purposes.
func newTestSession(playerID string) *session.Session {
	return session.NewSession("session-"+playerID, playerID, "secret-"+playerID, &MockConnection{}, 8)
}

func newTestManager(t *testing.T, opts Options) (*Manager, *MockBroadcaster) {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	m := NewManager(opts)
	b := &MockBroadcaster{}
	m.SetBroadcaster(b)
	return m, b
}

// formRoom subscribes p1 and p2 and returns the room they were seated in.
func formRoom(t *testing.T, m *Manager) (*Room, *session.Session, *session.Session) {
	t.Helper()
	s1, s2 := newTestSession("p1"), newTestSession("p2")
	if r, err := m.Subscribe(s1); err != nil || r != nil {
		t.Fatalf("first Subscribe = (%v, %v), want (nil, nil)", r, err)
	}
	r, err := m.Subscribe(s2)
	if err != nil {
		t.Fatalf("second Subscribe failed: %v", err)
	}
	if r == nil {
		t.Fatal("second Subscribe should form a room")
	}
	return r, s1, s2
}

func TestManager_SubscribeFormsRoom(t *testing.T) {
	m, b := newTestManager(t, Options{})
	r, s1, s2 := formRoom(t, m)

	if s1.RoomID() != r.ID || s2.RoomID() != r.ID {
		t.Errorf("sessions not seated in %s: %q, %q", r.ID, s1.RoomID(), s2.RoomID())
	}
	if m.QueueLength() != 0 {
		t.Errorf("Expected empty queue, got %d", m.QueueLength())
	}
	if got, ok := m.GetRoom(r.ID); !ok || got != r {
		t.Error("GetRoom should return the formed room")
	}

	msgs := b.Messages(r.ID)
	if len(msgs) != 1 {
		t.Fatalf("Expected the initial snapshot, got %d messages", len(msgs))
	}
	var snapshot struct {
		Board struct {
			Players []struct {
				ID string `json:"id"`
			} `json:"players"`
		} `json:"board"`
	}
	if err := json.Unmarshal(msgs[0], &snapshot); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if len(snapshot.Board.Players) != 2 || snapshot.Board.Players[0].ID != "p1" {
		t.Errorf("unexpected players in snapshot: %+v", snapshot.Board.Players)
	}

	s3 := newTestSession("p3")
	if r3, err := m.Subscribe(s3); err != nil || r3 != nil {
		t.Errorf("third Subscribe = (%v, %v), want queued", r3, err)
	}
	if m.QueueLength() != 1 {
		t.Errorf("Expected 1 queued player, got %d", m.QueueLength())
	}
}

func TestManager_SubscribeThreshold(t *testing.T) {
	m, _ := newTestManager(t, Options{PlayersPerSession: 3})
	for _, id := range []string{"a", "b"} {
		if r, err := m.Subscribe(newTestSession(id)); err != nil || r != nil {
			t.Fatalf("Subscribe(%s) = (%v, %v), want queued", id, r, err)
		}
	}
	r, err := m.Subscribe(newTestSession("c"))
	if err != nil || r == nil {
		t.Fatalf("third Subscribe should form a room, got (%v, %v)", r, err)
	}
	if got := len(r.PlayerIDs()); got != 3 {
		t.Errorf("Expected 3 seated players, got %d", got)
	}
}

func TestManager_SubscribeDuplicate(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	if _, err := m.Subscribe(newTestSession("p1")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Subscribe(newTestSession("p1")); !errors.Is(err, ErrPlayerAlreadyRegistered) {
		t.Errorf("queued duplicate: expected ErrPlayerAlreadyRegistered, got %v", err)
	}
	if _, err := m.Subscribe(newTestSession("p2")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Subscribe(newTestSession("p2")); !errors.Is(err, ErrPlayerAlreadyRegistered) {
		t.Errorf("seated duplicate: expected ErrPlayerAlreadyRegistered, got %v", err)
	}
	if _, err := m.Subscribe(newTestSession("")); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("empty player id: expected ErrUnauthorized, got %v", err)
	}
}

func TestManager_Authenticate(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	r, _, _ := formRoom(t, m)
	if _, err := m.Subscribe(newTestSession("p3")); err != nil {
		t.Fatal(err)
	}

	roomID, err := m.Authenticate("p1", "secret-p1")
	if err != nil || roomID != r.ID {
		t.Errorf("Authenticate(p1) = (%s, %v), want (%s, nil)", roomID, err, r.ID)
	}

	tests := map[string][2]string{
		"wrong secret": {"p1", "secret-p2"},
		"empty secret": {"p1", ""},
		"unknown":      {"p9", "secret-p9"},
		"queued only":  {"p3", "secret-p3"},
	}
	for name, creds := range tests {
		if _, err := m.Authenticate(creds[0], creds[1]); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestManager_ApplyExplore(t *testing.T) {
	rec := &recordingRecorder{}
	m, b := newTestManager(t, Options{Recorder: rec})
	r, _, _ := formRoom(t, m)
	ctx := context.Background()

	result, err := m.Apply(ctx, r.ID, "p1", game.PlayerExploreAction{PlayerID: "p1", Coordinate: game.Coordinate{X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	tile, ok := result.(game.TileContent)
	if !ok {
		t.Fatalf("Expected a TileContent result, got %T", result)
	}
	if tile.Sector != game.SectorInner {
		t.Errorf("Expected an inner tile, got %s", tile.Sector)
	}
	if got := len(r.Snapshot().Events); got != 3 {
		t.Errorf("Expected 3 events, got %d", got)
	}
	if got := len(b.Messages(r.ID)); got != 2 {
		t.Errorf("Expected 2 snapshots, got %d", got)
	}
	if len(rec.rooms) != 1 || len(rec.events[r.ID]) != 3 {
		t.Errorf("recorder saw %d rooms and %d events, want 1 and 3", len(rec.rooms), len(rec.events[r.ID]))
	}

	_, err = m.Apply(ctx, r.ID, "p1", game.PlayerPlaceTile{PlayerID: "p1", Coordinate: game.Coordinate{X: 1, Y: 1}, Tile: tile})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if got := r.Snapshot().CurrentPlayerIndex; got != 1 {
		t.Errorf("Expected turn to pass to seat 1, got %d", got)
	}
}

func TestManager_ApplyRejections(t *testing.T) {
	m, b := newTestManager(t, Options{})
	r, _, _ := formRoom(t, m)
	ctx := context.Background()
	explore := game.PlayerExploreAction{PlayerID: "p2", Coordinate: game.Coordinate{X: 1, Y: 1}}

	if _, err := m.Apply(ctx, r.ID, "p2", explore); !errors.Is(err, game.ErrNotPlayersTurn) {
		t.Errorf("out of turn: expected ErrNotPlayersTurn, got %v", err)
	}
	if _, err := m.Apply(ctx, r.ID, "p1", explore); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("actor mismatch: expected ErrUnauthorized, got %v", err)
	}
	if _, err := m.Apply(ctx, "missing", "p2", explore); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("missing room: expected ErrRoomNotFound, got %v", err)
	}
	if _, err := m.Apply(ctx, r.ID, "p1", game.PlayerRoundPass{PlayerID: "p1"}); !errors.Is(err, game.ErrUnsupportedAction) {
		t.Errorf("round pass: expected ErrUnsupportedAction, got %v", err)
	}
	if _, err := m.Apply(ctx, r.ID, "p1", game.GameRoundUpkeep{}); !errors.Is(err, game.ErrUnsupportedAction) {
		t.Errorf("game event: expected ErrUnsupportedAction, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := m.Apply(cancelled, r.ID, "p1", game.PlayerExploreAction{PlayerID: "p1", Coordinate: game.Coordinate{X: 1, Y: 1}}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: expected context.Canceled, got %v", err)
	}

	if got := len(r.Snapshot().Events); got != 1 {
		t.Errorf("rejected applies changed the log: %d events", got)
	}
	if got := len(b.Messages(r.ID)); got != 1 {
		t.Errorf("rejected applies broadcast snapshots: %d messages", got)
	}
}

func TestManager_ConcurrentApplySerialized(t *testing.T) {
	m, b := newTestManager(t, Options{})
	r, _, _ := formRoom(t, m)
	inner := r.Snapshot().PoolSize(game.SectorInner)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mutex     sync.Mutex
		successes int
		seen      = make(map[game.TileID]bool)
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev := game.PlayerExploreAction{PlayerID: "p1", Coordinate: game.Coordinate{X: 1, Y: 1}}
			result, err := m.Apply(context.Background(), r.ID, "p1", ev)
			if err != nil {
				if !errors.Is(err, game.ErrSectorExhausted) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			tile := result.(game.TileContent)
			mutex.Lock()
			defer mutex.Unlock()
			if seen[tile.ID] {
				t.Errorf("tile %s drawn twice", tile.ID)
			}
			seen[tile.ID] = true
			successes++
		}()
	}
	wg.Wait()

	if successes != inner {
		t.Errorf("Expected %d successful explores, got %d", inner, successes)
	}
	g := r.Snapshot()
	if got, want := len(g.Events), 1+2*successes; got != want {
		t.Errorf("Expected %d events, got %d", want, got)
	}
	if g.PoolSize(game.SectorInner) != 0 {
		t.Errorf("Expected the inner sector to be empty, %d left", g.PoolSize(game.SectorInner))
	}
	if got := len(b.Messages(r.ID)); got != 1+successes {
		t.Errorf("Expected %d snapshots, got %d", 1+successes, got)
	}
}

func TestManager_Disconnect(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	r, s1, _ := formRoom(t, m)
	before := r.Snapshot()

	m.Disconnect(s1)
	if s1.RoomID() != "" {
		t.Error("Disconnect should clear the session's room")
	}
	if got := len(r.GetSessions()); got != 1 {
		t.Errorf("Expected 1 subscriber left, got %d", got)
	}
	if len(r.Snapshot().Events) != len(before.Events) {
		t.Error("Disconnect should not touch the game")
	}
	if _, err := m.Authenticate("p1", "secret-p1"); err != nil {
		t.Errorf("disconnected player should keep its seat: %v", err)
	}

	queued := newTestSession("p3")
	if _, err := m.Subscribe(queued); err != nil {
		t.Fatal(err)
	}
	m.Disconnect(queued)
	if m.QueueLength() != 0 {
		t.Errorf("Expected empty queue after disconnect, got %d", m.QueueLength())
	}
}

func TestManager_Shutdown(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	_, s1, s2 := formRoom(t, m)
	queued := newTestSession("p3")
	if _, err := m.Subscribe(queued); err != nil {
		t.Fatal(err)
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	for _, s := range []*session.Session{s1, s2, queued} {
		if !s.Conn.(*MockConnection).Closed() {
			t.Errorf("session %s was not closed", s.PlayerID)
		}
	}
	if _, err := m.Subscribe(newTestSession("p4")); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("Expected ErrManagerClosed, got %v", err)
	}
}

func TestRoom_AddRemovePlayer(t *testing.T) {
	g, err := game.Setup([]game.PlayerSetup{{ID: "p1", Species: "eridani-empire"}, {ID: "p2", Species: "eridani-empire"}}, game.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	room := NewRoom("test_room", g, game.NewRand(1), &MockBroadcaster{}, nil)

	player1 := newTestSession("p1")
	room.AddPlayer(player1)
	if sessions := room.GetSessions(); len(sessions) != 1 || sessions[0] != player1 {
		t.Fatal("Player was not correctly added to the room's player map")
	}
	if player1.RoomID() != "test_room" {
		t.Errorf("Expected session room test_room, got %q", player1.RoomID())
	}

	room.RemovePlayer(player1.ID)
	if len(room.GetSessions()) != 0 {
		t.Errorf("Expected player count to be 0 after removing player, got %d", len(room.GetSessions()))
	}
	if player1.RoomID() != "" {
		t.Error("RemovePlayer should clear the session's room")
	}
}
