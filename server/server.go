package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/wfunc/galaxyserver/broadcast"
	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/network"
	"github.com/wfunc/galaxyserver/room"
	galaxy_rpc "github.com/wfunc/galaxyserver/rpc"
	"github.com/wfunc/galaxyserver/services"
	"github.com/wfunc/galaxyserver/session"
	"github.com/wfunc/galaxyserver/timer"
)

const idleHeartbeats = 3

type Options struct {
	Addr              string
	RPCAddr           string
	AllowedOrigin     string
	HeartbeatInterval time.Duration
	SendBuffer        int
	ActionsPerSecond  float64
	Burst             int
}

// Monitor receives connection counts.
type Monitor interface {
	SetOnlinePlayers(count int)
}

type GameServer struct {
	opts           Options
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	rpcServer      *galaxy_rpc.Server
	monitor        Monitor
	timers         *timer.TimerManager
	httpServer     *http.Server

	limiterMutex sync.Mutex
	limiters     map[string]*rate.Limiter
}

// NewGameServer wires the transport around a room manager. archive and m
// may be nil. The RPC listener is only opened when opts.RPCAddr is set.
func NewGameServer(opts Options, rooms *room.Manager, archive *services.ArchiveService, m Monitor) (*GameServer, error) {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}

	s := &GameServer{
		opts:           opts,
		roomManager:    rooms,
		sessionManager: session.NewManager(),
		monitor:        m,
		timers:         timer.NewTimerManager(),
		limiters:       make(map[string]*rate.Limiter),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	// 初始化广播器
	b := broadcast.NewRoomBroadcaster(rooms, s.sessionManager)
	rooms.SetBroadcaster(b)
	s.broadcaster = b

	if opts.RPCAddr != "" {
		rpcServer, err := galaxy_rpc.NewServer(opts.RPCAddr, galaxy_rpc.NewGameService(rooms, archive))
		if err != nil {
			s.timers.Stop()
			return nil, err
		}
		s.rpcServer = rpcServer
	}

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the routed, CORS-wrapped HTTP surface.
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+network.RouteEvents, s.handleEvents)
	mux.HandleFunc("GET /{$}", s.handleEvents)
	mux.HandleFunc("GET "+network.RouteWebSocket, s.handleWebSocket)
	mux.HandleFunc("POST "+network.RouteAction, s.handleAction)
	mux.HandleFunc("POST /{$}", s.handleAction)
	mux.HandleFunc("GET "+network.RouteHealth, s.handleHealth)
	mux.HandleFunc("OPTIONS /", s.handlePreflight)
	return s.withCORS(mux)
}

func (s *GameServer) Start() error {
	if s.rpcServer != nil {
		go s.rpcServer.Start()
	}
	if s.opts.HeartbeatInterval > 0 {
		s.timers.AddTimer(s.opts.HeartbeatInterval, s.opts.HeartbeatInterval, s.heartbeat)
	}

	logger.Log.Infof("Game server listening on %s", s.opts.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes every client stream first so that long-lived handlers
// return, then drains the HTTP server.
func (s *GameServer) Shutdown(ctx context.Context) error {
	s.timers.Stop()
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}

	err := s.roomManager.Shutdown(ctx)
	for _, sess := range s.sessionManager.All() {
		sess.Close()
	}
	if herr := s.httpServer.Shutdown(ctx); herr != nil && err == nil {
		err = herr
	}
	return err
}

func (s *GameServer) heartbeat() {
	closed := s.closeIdle(time.Now())
	alive := s.broadcaster.PingAll()
	s.reportOnline()
	logger.Log.Debugw("Heartbeat", "sessions", alive, "idle_closed", closed)
}

// closeIdle closes sessions that have not completed a write for
// idleHeartbeats intervals. Their handlers deregister them on return.
func (s *GameServer) closeIdle(now time.Time) int {
	cutoff := now.Add(-idleHeartbeats * s.opts.HeartbeatInterval)
	idle := s.sessionManager.Idle(cutoff)
	for _, sess := range idle {
		logger.Log.Infow("Closing idle client", "player", sess.PlayerID, "session", sess.ID, "last_active", sess.LastActive())
		sess.Close()
	}
	return len(idle)
}

func (s *GameServer) checkOrigin(r *http.Request) bool {
	if s.opts.AllowedOrigin == "*" {
		return true
	}
	return r.Header.Get("Origin") == s.opts.AllowedOrigin
}

func (s *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessionManager.Count(),
		"queued":   s.roomManager.QueueLength(),
	})
}

func (s *GameServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	playerID, secret := credentials(r)
	if playerID == "" {
		writeError(w, http.StatusBadRequest, errMissingPlayerID)
		return
	}

	conn, err := network.NewSSEConnection(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sess := session.NewSession(uuid.NewString(), playerID, secret, conn, s.opts.SendBuffer)
	if _, err := s.roomManager.Subscribe(sess); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := conn.Open(); err != nil {
		s.roomManager.Disconnect(sess)
		return
	}

	s.serveSession(r.Context(), sess)
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	playerID, secret := credentials(r)
	if playerID == "" {
		writeError(w, http.StatusBadRequest, errMissingPlayerID)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	wsConn := network.NewWSConnection(conn)

	sess := session.NewSession(uuid.NewString(), playerID, secret, wsConn, s.opts.SendBuffer)
	if _, err := s.roomManager.Subscribe(sess); err != nil {
		wsConn.CloseWithReason(websocket.ClosePolicyViolation, err.Error())
		return
	}
	if s.opts.HeartbeatInterval > 0 {
		wsConn.SetHeartbeat(s.opts.HeartbeatInterval)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		if err := wsConn.ReadLoop(); err != nil {
			logger.Log.Debugw("Websocket read ended", "session", sess.ID, "error", err)
		}
		cancel()
	}()

	s.serveSession(ctx, sess)
}

// serveSession drains the session's queue onto its connection until the
// client goes away, then deregisters it.
func (s *GameServer) serveSession(ctx context.Context, sess *session.Session) {
	s.sessionManager.Add(sess)
	s.reportOnline()
	logger.Log.Infow("Client connected", "player", sess.PlayerID, "session", sess.ID, "remote", sess.Conn.RemoteAddr())

	defer func() {
		s.roomManager.Disconnect(sess)
		s.sessionManager.Remove(sess.ID)
		sess.Close()
		s.reportOnline()
	}()

	if err := sess.WritePump(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, session.ErrSessionClosed) {
		logger.Log.Warnw("Client stream failed", "player", sess.PlayerID, "session", sess.ID, "error", err)
	}
}

func (s *GameServer) reportOnline() {
	if s.monitor != nil {
		s.monitor.SetOnlinePlayers(s.sessionManager.Count())
	}
}

func credentials(r *http.Request) (playerID, secret string) {
	q := r.URL.Query()
	return q.Get(network.QueryPlayerID), q.Get(network.QueryPlayerSecret)
}
