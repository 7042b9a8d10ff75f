package services

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wfunc/galaxyserver/game"
	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/models"
	"github.com/wfunc/galaxyserver/persistence"
)

const (
	DefaultArchiveBuffer = 256
	writeTimeout         = 5 * time.Second
)

type archiveJob struct {
	session *models.SessionRecord
	events  []models.EventRecord
	flushed chan struct{}
}

func (j archiveJob) roomID() string {
	if j.session != nil {
		return j.session.RoomID
	}
	if len(j.events) > 0 {
		return j.events[0].RoomID
	}
	return ""
}

// ArchiveService writes the audit trail on a single background worker.
// Recording never blocks: callers hold room locks, so when the queue is full
// the job is dropped and counted. Jobs are written in submission order, which
// is log order per room.
type ArchiveService struct {
	db   persistence.Database
	jobs chan archiveJob
	quit chan struct{}
	done chan struct{}

	closeOnce sync.Once
	closeErr  error
	dropped   atomic.Int64
	onDrop    func()

	seqMutex sync.Mutex
	seq      map[string]int // roomID -> next sequence number
}

func NewArchiveService(db persistence.Database, buffer int) *ArchiveService {
	if buffer <= 0 {
		buffer = DefaultArchiveBuffer
	}
	s := &ArchiveService{
		db:   db,
		jobs: make(chan archiveJob, buffer),
		quit: make(chan struct{}),
		done: make(chan struct{}),
		seq:  make(map[string]int),
	}
	go s.run()
	return s
}

// OnDrop registers a callback run for every dropped job. Call it before the
// service records anything.
func (s *ArchiveService) OnDrop(fn func()) {
	s.onDrop = fn
}

// Dropped reports how many jobs were discarded because the queue was full.
func (s *ArchiveService) Dropped() int64 {
	return s.dropped.Load()
}

// RecordRoom implements room.Recorder.
func (s *ArchiveService) RecordRoom(roomID string, playerIDs []string, createdAt time.Time) {
	rec := &models.SessionRecord{
		RoomID:    roomID,
		PlayerIDs: append([]string(nil), playerIDs...),
		CreatedAt: createdAt,
	}
	s.submit(archiveJob{session: rec})
}

// RecordEvents implements room.Recorder.
func (s *ArchiveService) RecordEvents(roomID string, events []game.Event) {
	if len(events) == 0 {
		return
	}
	now := time.Now()
	records := make([]models.EventRecord, 0, len(events))

	s.seqMutex.Lock()
	next := s.seq[roomID]
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			logger.Log.Errorw("Failed to encode event for archive", "room", roomID, "event", ev.Type(), "error", err)
			continue
		}
		records = append(records, models.EventRecord{
			RoomID:     roomID,
			Seq:        next,
			Type:       string(ev.Type()),
			Payload:    payload,
			RecordedAt: now,
		})
		next++
	}
	s.seq[roomID] = next
	s.seqMutex.Unlock()

	s.submit(archiveJob{events: records})
}

func (s *ArchiveService) submit(job archiveJob) {
	select {
	case <-s.quit:
		logger.Log.Warnw("Archive closed, dropping job", "room", job.roomID())
		return
	default:
	}

	select {
	case s.jobs <- job:
	default:
		s.dropped.Add(1)
		logger.Log.Warnw("Archive queue full, dropping job", "room", job.roomID(), "events", len(job.events))
		if s.onDrop != nil {
			s.onDrop()
		}
	}
}

func (s *ArchiveService) run() {
	defer close(s.done)
	for {
		select {
		case job := <-s.jobs:
			s.write(job)
		case <-s.quit:
			for {
				select {
				case job := <-s.jobs:
					s.write(job)
				default:
					return
				}
			}
		}
	}
}

func (s *ArchiveService) write(job archiveJob) {
	if job.flushed != nil {
		close(job.flushed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if job.session != nil {
		if err := s.db.SaveSession(ctx, *job.session); err != nil {
			logger.Log.Errorw("Failed to archive session", "room", job.session.RoomID, "error", err)
		}
	}
	if len(job.events) > 0 {
		if err := s.db.AppendEvents(ctx, job.events); err != nil {
			logger.Log.Errorw("Failed to archive events", "room", job.events[0].RoomID, "count", len(job.events), "error", err)
		}
	}
}

func (s *ArchiveService) Sessions(ctx context.Context) ([]models.SessionRecord, error) {
	return s.db.ListSessions(ctx)
}

func (s *ArchiveService) EventLog(ctx context.Context, roomID string) ([]models.EventRecord, error) {
	return s.db.LoadEvents(ctx, roomID)
}

// Close writes the jobs already queued and closes the database.
func (s *ArchiveService) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// Flush waits until every job submitted so far has been written.
func (s *ArchiveService) Flush(ctx context.Context) error {
	flushed := make(chan struct{})
	select {
	case s.jobs <- archiveJob{flushed: flushed}:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-flushed:
		return nil
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
