package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/galaxyserver/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(DSN(host, port, user, password, dbname)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormSession{}, &models.GormSessionEvent{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func (p *GormPostgreSQL) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	players, err := json.Marshal(rec.PlayerIDs)
	if err != nil {
		return err
	}
	row := models.GormSession{RoomID: rec.RoomID, PlayerIDs: string(players)}
	row.CreatedAt = rec.CreatedAt
	return p.db.WithContext(ctx).Create(&row).Error
}

// AppendEvents 在一个事务中写入一批事件
func (p *GormPostgreSQL) AppendEvents(ctx context.Context, records []models.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.GormSessionEvent, len(records))
	for i, r := range records {
		rows[i] = models.GormSessionEvent{RoomID: r.RoomID, Seq: r.Seq, Type: r.Type, Payload: string(r.Payload)}
		rows[i].CreatedAt = r.RecordedAt
	}
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, 100).Error
	})
}

func (p *GormPostgreSQL) LoadEvents(ctx context.Context, roomID string) ([]models.EventRecord, error) {
	var session models.GormSession
	if err := p.db.WithContext(ctx).Where("room_id = ?", roomID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	var rows []models.GormSessionEvent
	if err := p.db.WithContext(ctx).Where("room_id = ?", roomID).Order("seq").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.EventRecord, len(rows))
	for i, r := range rows {
		out[i] = models.EventRecord{
			RoomID:     r.RoomID,
			Seq:        r.Seq,
			Type:       r.Type,
			Payload:    json.RawMessage(r.Payload),
			RecordedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func (p *GormPostgreSQL) ListSessions(ctx context.Context) ([]models.SessionRecord, error) {
	var rows []models.GormSession
	if err := p.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.SessionRecord, len(rows))
	for i, r := range rows {
		out[i] = models.SessionRecord{RoomID: r.RoomID, CreatedAt: r.CreatedAt}
		if err := json.Unmarshal([]byte(r.PlayerIDs), &out[i].PlayerIDs); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
