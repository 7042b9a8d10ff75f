package room

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wfunc/galaxyserver/game"
	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/session"
)

// Room owns one Game. mu serializes every mutation and the snapshot push
// that follows it; playerMutex only guards the subscriber set.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu   sync.Mutex
	game game.Game
	rng  game.Rand

	Players     map[string]*session.Session // sessionID -> session
	playerMutex sync.RWMutex

	broadcaster Broadcaster
	recorder    Recorder
}

func NewRoom(id string, g game.Game, rng game.Rand, broadcaster Broadcaster, recorder Recorder) *Room {
	return &Room{
		ID:          id,
		CreatedAt:   time.Now(),
		game:        g,
		rng:         rng,
		Players:     make(map[string]*session.Session),
		broadcaster: broadcaster,
		recorder:    recorder,
	}
}

// Apply validates and applies one client event. On success the new Game
// replaces the old one, the appended events are recorded and the snapshot is
// queued to every subscriber before the lock is released.
func (r *Room) Apply(ctx context.Context, playerID string, ev game.Event) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next, result, err := r.dispatch(playerID, ev)
	if err != nil {
		return nil, err
	}

	appended := next.Events[len(r.game.Events):]
	r.game = next
	if r.recorder != nil {
		r.recorder.RecordEvents(r.ID, appended)
	}
	r.broadcastLocked()
	return result, nil
}

func (r *Room) dispatch(playerID string, ev game.Event) (game.Game, any, error) {
	switch e := ev.(type) {
	case game.PlayerExploreAction:
		next, tile, err := game.TriggerExploreAction(r.game, playerID, e.Coordinate, r.rng)
		if err != nil {
			return game.Game{}, nil, err
		}
		return next, tile, nil
	case game.PlayerPlaceTile:
		next, err := game.TriggerTilePick(r.game, playerID, e.Coordinate, e.Tile, e.Influence, e.Rotation)
		return next, nil, err
	case game.PlayerFoldTile:
		next, err := game.FoldTile(r.game, playerID, e.Tile)
		return next, nil, err
	case game.PlayerResearchAction, game.PlayerUpgradeAction, game.PlayerBuildAction,
		game.PlayerMoveAction, game.PlayerInfluenceAction, game.PlayerRoundPass:
		return game.Game{}, nil, fmt.Errorf("%w: %s is not handled by this server", game.ErrUnsupportedAction, ev.Type())
	case game.GameSetup, game.GameTileDraw, game.GamePlayerTurn,
		game.GameRoundAction, game.GameRoundUpkeep, game.GameRoundCleanup:
		return game.Game{}, nil, fmt.Errorf("%w: %s is emitted by the server, not submitted", game.ErrUnsupportedAction, ev.Type())
	default:
		return game.Game{}, nil, fmt.Errorf("%w: %T", game.ErrUnsupportedAction, ev)
	}
}

// Snapshot returns the current Game. Game values are never mutated after
// publication, so the result may be read without holding the lock.
func (r *Room) Snapshot() game.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game
}

// BroadcastSnapshot pushes the current state to every subscriber.
func (r *Room) BroadcastSnapshot() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked()
}

func (r *Room) broadcastLocked() {
	if r.broadcaster == nil {
		return
	}
	data, err := json.Marshal(r.game)
	if err != nil {
		logger.Log.Errorw("Failed to encode snapshot", "room", r.ID, "error", err)
		return
	}
	if err := r.broadcaster.BroadcastToRoom(r.ID, data); err != nil {
		logger.Log.Warnw("Failed to broadcast snapshot", "room", r.ID, "error", err)
	}
}

// PlayerIDs lists the seated players in seat order.
func (r *Room) PlayerIDs() []string {
	g := r.Snapshot()
	ids := make([]string, len(g.Board.Players))
	for i, p := range g.Board.Players {
		ids[i] = p.ID
	}
	return ids
}

// AddPlayer subscribes a session to the room's snapshots.
func (r *Room) AddPlayer(s *session.Session) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	r.Players[s.ID] = s
	s.SetRoomID(r.ID)
}

// RemovePlayer unsubscribes a session. The game is left untouched.
func (r *Room) RemovePlayer(sessionID string) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	if player, exists := r.Players[sessionID]; exists {
		player.SetRoomID("")
		delete(r.Players, sessionID)
	}
}

// GetSessions returns a slice of all sessions in the room (thread-safe).
func (r *Room) GetSessions() []*session.Session {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.Players))
	for _, s := range r.Players {
		sessions = append(sessions, s)
	}
	return sessions
}
