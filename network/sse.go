package network

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

var ErrStreamingUnsupported = errors.New("response writer does not support streaming")

// SSEConnection frames snapshots as Server-Sent Events on a held-open HTTP
// response. It is only valid while the handler that created it is running.
type SSEConnection struct {
	w       http.ResponseWriter
	flusher http.Flusher
	remote  string
	mutex   sync.Mutex
	opened  bool
	closed  bool
}

// NewSSEConnection checks that w can stream. Nothing is written until Open,
// so the handler may still reply with an error status.
func NewSSEConnection(w http.ResponseWriter, r *http.Request) (*SSEConnection, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &SSEConnection{w: w, flusher: flusher, remote: r.RemoteAddr}, nil
}

// Open commits the event-stream response headers.
func (c *SSEConnection) Open() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.openLocked()
}

func (c *SSEConnection) openLocked() error {
	if c.opened {
		return nil
	}
	c.opened = true

	h := c.w.Header()
	h.Set("Content-Type", ContentTypeEventStream)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.w.WriteHeader(http.StatusOK)
	if _, err := c.w.Write([]byte("\n")); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

// Send writes one "data:" frame. Snapshot JSON never contains raw newlines.
func (c *SSEConnection) Send(data []byte) error {
	return c.write(fmt.Sprintf("data: %s\n\n", data))
}

// Ping writes an SSE comment, which clients ignore.
func (c *SSEConnection) Ping() error {
	return c.write(": ping\n\n")
}

func (c *SSEConnection) write(frame string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	if err := c.openLocked(); err != nil {
		return err
	}
	if _, err := c.w.Write([]byte(frame)); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

func (c *SSEConnection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed = true
	return nil
}

func (c *SSEConnection) RemoteAddr() string {
	return c.remote
}
