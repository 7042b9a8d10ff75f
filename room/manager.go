package room

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/galaxyserver/catalog"
	"github.com/wfunc/galaxyserver/game"
	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/session"
)

var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrRoomNotFound            = errors.New("room not found")
	ErrPlayerAlreadyRegistered = errors.New("player already registered")
	ErrManagerClosed           = errors.New("room manager closed")
)

const DefaultPlayersPerSession = 2

type Options struct {
	// PlayersPerSession is the queue length that forms a new room.
	PlayersPerSession int
	// Seed fixes every room's random source when non-zero.
	Seed     int64
	Recorder Recorder
	Monitor  Monitor
}

type registration struct {
	secret string
	roomID string
}

// Manager is the process-wide session service: it owns the matchmaking
// queue, every room and the player index used for authentication.
type Manager struct {
	opts        Options
	broadcaster Broadcaster
	monitor     Monitor

	mutex   sync.RWMutex
	queue   []*session.Session
	rooms   map[string]*Room
	players map[string]registration // playerID -> registration
	closed  bool
}

func NewManager(opts Options) *Manager {
	if opts.PlayersPerSession == 0 {
		opts.PlayersPerSession = DefaultPlayersPerSession
	}
	monitor := opts.Monitor
	if monitor == nil {
		monitor = nopMonitor{}
	}
	return &Manager{
		opts:    opts,
		monitor: monitor,
		rooms:   make(map[string]*Room),
		players: make(map[string]registration),
	}
}

// SetBroadcaster must be called before the first Subscribe.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.broadcaster = b
}

// Subscribe queues a client. When the queue reaches the session size the
// front clients are seated in a new room and receive its first snapshot.
// The returned room is nil while the client is still waiting.
func (m *Manager) Subscribe(s *session.Session) (*Room, error) {
	if s.PlayerID == "" {
		return nil, ErrUnauthorized
	}

	m.mutex.Lock()
	if m.closed {
		m.mutex.Unlock()
		return nil, ErrManagerClosed
	}
	if m.isKnownLocked(s.PlayerID) {
		m.mutex.Unlock()
		return nil, ErrPlayerAlreadyRegistered
	}

	m.queue = append(m.queue, s)
	var formed *Room
	if len(m.queue) >= m.opts.PlayersPerSession {
		group := m.queue[:m.opts.PlayersPerSession]
		room, err := m.createRoomLocked(group)
		if err != nil {
			m.queue = m.queue[:len(m.queue)-1]
			m.mutex.Unlock()
			return nil, err
		}
		m.queue = append([]*session.Session(nil), m.queue[m.opts.PlayersPerSession:]...)
		formed = room
	}
	queued, active := len(m.queue), len(m.rooms)
	m.mutex.Unlock()

	m.monitor.SetQueuedPlayers(queued)
	m.monitor.SetActiveRooms(active)

	if formed == nil {
		logger.Log.Infow("Player queued", "player", s.PlayerID, "queued", queued)
		return nil, nil
	}

	logger.Log.Infow("Session formed", "room", formed.ID, "players", formed.PlayerIDs())
	formed.BroadcastSnapshot()
	return formed, nil
}

func (m *Manager) isKnownLocked(playerID string) bool {
	if _, ok := m.players[playerID]; ok {
		return true
	}
	for _, q := range m.queue {
		if q.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (m *Manager) createRoomLocked(group []*session.Session) (*Room, error) {
	seed := m.opts.Seed
	if seed == 0 {
		var err error
		if seed, err = game.NewSeed(); err != nil {
			return nil, err
		}
	}
	rng := game.NewRand(seed)

	setups := make([]game.PlayerSetup, len(group))
	for i, s := range group {
		setups[i] = game.PlayerSetup{ID: s.PlayerID, Species: catalog.DefaultSpecies}
	}
	g, err := game.Setup(setups, rng)
	if err != nil {
		return nil, fmt.Errorf("setup game: %w", err)
	}

	room := NewRoom(uuid.NewString(), g, rng, m.broadcaster, m.opts.Recorder)
	for _, s := range group {
		room.AddPlayer(s)
		m.players[s.PlayerID] = registration{secret: s.Secret, roomID: room.ID}
	}
	m.rooms[room.ID] = room

	if rec := m.opts.Recorder; rec != nil {
		ids := make([]string, len(setups))
		for i, p := range setups {
			ids[i] = p.ID
		}
		rec.RecordRoom(room.ID, ids, room.CreatedAt)
		rec.RecordEvents(room.ID, g.Events)
	}
	return room, nil
}

// Authenticate checks a player's secret against the one given at subscribe
// time and returns the player's room.
func (m *Manager) Authenticate(playerID, secret string) (string, error) {
	m.mutex.RLock()
	reg, ok := m.players[playerID]
	m.mutex.RUnlock()

	if !ok || subtle.ConstantTimeCompare([]byte(reg.secret), []byte(secret)) != 1 {
		return "", ErrUnauthorized
	}
	return reg.roomID, nil
}

// Apply runs one event against a room on behalf of an authenticated player.
// Applies to the same room are serialized; different rooms run in parallel.
func (m *Manager) Apply(ctx context.Context, roomID, playerID string, ev game.Event) (any, error) {
	if ev == nil {
		return nil, game.ErrMalformedEvent
	}

	start := time.Now()
	result, err := m.apply(ctx, roomID, playerID, ev)
	m.monitor.ObserveAction(string(ev.Type()), outcome(err), time.Since(start))

	if err != nil {
		logger.Log.Warnw("Apply rejected", "room", roomID, "player", playerID, "event", ev.Type(), "error", err)
		return nil, err
	}
	logger.Log.Debugw("Apply accepted", "room", roomID, "player", playerID, "event", ev.Type())
	return result, nil
}

func (m *Manager) apply(ctx context.Context, roomID, playerID string, ev game.Event) (any, error) {
	if pe, ok := ev.(game.PlayerEvent); ok && pe.Actor() != playerID {
		return nil, ErrUnauthorized
	}
	room, ok := m.GetRoom(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Apply(ctx, playerID, ev)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var ge *game.Error
	if errors.As(err, &ge) {
		return string(ge.Code)
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrRoomNotFound):
		return "ROOM_NOT_FOUND"
	}
	return "ERROR"
}

// Disconnect stops deliveries to a client. A queued client leaves the queue;
// a seated client leaves its room's subscriber set but keeps its seat.
func (m *Manager) Disconnect(s *session.Session) {
	m.mutex.Lock()
	for i, q := range m.queue {
		if q == s {
			m.queue = append(m.queue[:i:i], m.queue[i+1:]...)
			break
		}
	}
	room := m.rooms[s.RoomID()]
	queued := len(m.queue)
	m.mutex.Unlock()

	if room != nil {
		room.RemovePlayer(s.ID)
	}
	m.monitor.SetQueuedPlayers(queued)
	logger.Log.Infow("Player disconnected", "player", s.PlayerID, "session", s.ID)
}

// GetRoom looks up a room by id.
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

func (m *Manager) ListRooms() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

func (m *Manager) QueueLength() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.queue)
}

// Shutdown refuses new subscribers and closes every connected client.
// Games stay in memory until the process exits.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mutex.Lock()
	m.closed = true
	sessions := append([]*session.Session(nil), m.queue...)
	m.queue = nil
	for _, r := range m.rooms {
		sessions = append(sessions, r.GetSessions()...)
	}
	m.mutex.Unlock()

	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Close()
	}
	m.monitor.SetQueuedPlayers(0)
	return nil
}
