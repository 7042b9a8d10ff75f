package network

import "time"

const (
	RouteEvents    = "/events"
	RouteWebSocket = "/ws"
	RouteAction    = "/action"
	RouteHealth    = "/healthz"
)

// Identity travels as query parameters on every request.
const (
	QueryPlayerID     = "playerId"
	QueryPlayerSecret = "playerSecret"
)

const (
	ContentTypeEventStream = "text/event-stream"
	ContentTypeJSON        = "application/json"
)

const writeWait = 10 * time.Second
