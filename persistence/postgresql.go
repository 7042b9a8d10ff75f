package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/wfunc/galaxyserver/models"
)

// PostgreSQL 数据库实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	db, err := sql.Open("postgres", DSN(host, port, user, password, dbname))
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(ctx, db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS sessions (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(64) UNIQUE NOT NULL,
            player_ids TEXT[] NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS session_events (
            id BIGSERIAL PRIMARY KEY,
            room_id VARCHAR(64) NOT NULL,
            seq INTEGER NOT NULL,
            type VARCHAR(64) NOT NULL,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (room_id, seq)
        )
    `)
	return err
}

func (p *PostgreSQL) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sessions (room_id, player_ids, created_at) VALUES ($1, $2, $3)
         ON CONFLICT (room_id) DO NOTHING`,
		rec.RoomID, pq.Array(rec.PlayerIDs), rec.CreatedAt)
	return err
}

// AppendEvents 使用 COPY 批量写入事件
func (p *PostgreSQL) AppendEvents(ctx context.Context, records []models.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("session_events", "room_id", "seq", "type", "payload", "created_at"))
	if err != nil {
		return err
	}
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.RoomID, r.Seq, r.Type, string(r.Payload), r.RecordedAt); err != nil {
			stmt.Close()
			return err
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return err
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *PostgreSQL) LoadEvents(ctx context.Context, roomID string) ([]models.EventRecord, error) {
	var exists bool
	if err := p.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE room_id = $1)`, roomID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecordNotFound
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT room_id, seq, type, payload, created_at FROM session_events WHERE room_id = $1 ORDER BY seq`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EventRecord
	for rows.Next() {
		var (
			r       models.EventRecord
			payload []byte
		)
		if err := rows.Scan(&r.RoomID, &r.Seq, &r.Type, &payload, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.Payload = json.RawMessage(payload)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgreSQL) ListSessions(ctx context.Context) ([]models.SessionRecord, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT room_id, player_ids, created_at FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SessionRecord
	for rows.Next() {
		var r models.SessionRecord
		if err := rows.Scan(&r.RoomID, pq.Array(&r.PlayerIDs), &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
