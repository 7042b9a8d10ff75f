package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/wfunc/galaxyserver/models"
)

// Database is the append-only audit store. It is never read back to resume
// a game.
type Database interface {
	SaveSession(ctx context.Context, rec models.SessionRecord) error
	AppendEvents(ctx context.Context, records []models.EventRecord) error
	LoadEvents(ctx context.Context, roomID string) ([]models.EventRecord, error)
	ListSessions(ctx context.Context) ([]models.SessionRecord, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = errors.New("record not found")
)

// DSN builds a lib/pq keyword/value connection string.
func DSN(host string, port int, user, password, dbname string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}
