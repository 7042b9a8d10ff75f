package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/rpc"
	"sort"
	"time"

	"github.com/wfunc/galaxyserver/game"
	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/models"
	"github.com/wfunc/galaxyserver/room"
	"github.com/wfunc/galaxyserver/services"
)

const queryTimeout = 5 * time.Second

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
	rpc      *rpc.Server
}

// NewServer listens on addr and registers service under the name
// "GameService".
func NewServer(addr string, service *GameService) (*Server, error) {
	srv := rpc.NewServer()
	if err := srv.Register(service); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  listener.Addr().String(),
		rpc:      srv,
	}, nil
}

func (s *Server) Addr() string {
	return s.address
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// GameService exposes read-only views of live sessions and the audit trail.
type GameService struct {
	rooms   *room.Manager
	archive *services.ArchiveService
}

// NewGameService creates a new GameService. archive may be nil, in which
// case GetEventLog fails.
func NewGameService(rooms *room.Manager, archive *services.ArchiveService) *GameService {
	return &GameService{rooms: rooms, archive: archive}
}

var ErrArchiveDisabled = errors.New("archive disabled")

type ListSessionsArgs struct {
	// Limit caps the number of sessions returned, oldest first. Zero means
	// no limit.
	Limit int
}

type ListSessionsReply struct {
	Sessions []models.SessionSummary
	Queued   int
}

func (gs *GameService) ListSessions(args *ListSessionsArgs, reply *ListSessionsReply) error {
	for _, r := range gs.rooms.ListRooms() {
		g := r.Snapshot()
		reply.Sessions = append(reply.Sessions, models.SessionSummary{
			RoomID:        r.ID,
			PlayerIDs:     r.PlayerIDs(),
			CurrentPlayer: g.CurrentPlayer().ID,
			EventCount:    len(g.Events),
			Subscribers:   len(r.GetSessions()),
			CreatedAt:     r.CreatedAt,
		})
	}
	sort.Slice(reply.Sessions, func(i, j int) bool {
		return reply.Sessions[i].CreatedAt.Before(reply.Sessions[j].CreatedAt)
	})
	if args.Limit > 0 && len(reply.Sessions) > args.Limit {
		reply.Sessions = reply.Sessions[:args.Limit]
	}
	reply.Queued = gs.rooms.QueueLength()
	return nil
}

type GetSessionArgs struct {
	RoomID string
}

type GetSessionReply struct {
	// Snapshot is the JSON encoding pushed to clients.
	Snapshot []byte
	// Candidates lists, per player, the coordinates that player could
	// explore from the current board.
	Candidates map[string][]game.Coordinate
}

func (gs *GameService) GetSession(args *GetSessionArgs, reply *GetSessionReply) error {
	r, ok := gs.rooms.GetRoom(args.RoomID)
	if !ok {
		return room.ErrRoomNotFound
	}
	g := r.Snapshot()
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	reply.Snapshot = data
	reply.Candidates = make(map[string][]game.Coordinate, len(g.Board.Players))
	for _, p := range g.Board.Players {
		reply.Candidates[p.ID] = game.ExploreCandidates(g, p.ID)
	}
	return nil
}

type GetEventLogArgs struct {
	RoomID string
}

type GetEventLogReply struct {
	Events []models.EventRecord
}

func (gs *GameService) GetEventLog(args *GetEventLogArgs, reply *GetEventLogReply) error {
	if gs.archive == nil {
		return ErrArchiveDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	events, err := gs.archive.EventLog(ctx, args.RoomID)
	if err != nil {
		return err
	}
	reply.Events = events
	return nil
}
