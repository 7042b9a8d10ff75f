package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/wfunc/galaxyserver/models"
)

// Memory keeps the audit trail in process memory. It is the default store
// and the one tests run against.
type Memory struct {
	mutex    sync.RWMutex
	sessions map[string]models.SessionRecord
	events   map[string][]models.EventRecord
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]models.SessionRecord),
		events:   make(map[string][]models.EventRecord),
	}
}

func (m *Memory) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	rec.PlayerIDs = append([]string(nil), rec.PlayerIDs...)
	m.sessions[rec.RoomID] = rec
	return nil
}

func (m *Memory) AppendEvents(ctx context.Context, records []models.EventRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, r := range records {
		m.events[r.RoomID] = append(m.events[r.RoomID], r)
	}
	return nil
}

func (m *Memory) LoadEvents(ctx context.Context, roomID string) ([]models.EventRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, ok := m.sessions[roomID]; !ok {
		return nil, ErrRecordNotFound
	}
	return append([]models.EventRecord(nil), m.events[roomID]...), nil
}

func (m *Memory) ListSessions(ctx context.Context) ([]models.SessionRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]models.SessionRecord, 0, len(m.sessions))
	for _, rec := range m.sessions {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}
