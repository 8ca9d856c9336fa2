// Package tradestore persists the trade history in SQLite through Gorm.
package tradestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewFromDB(db)
}

func NewFromDB(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db cannot be nil")
	}
	if err := db.AutoMigrate(&TradeModel{}); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(2)
	}
	return &Store{db: db}, nil
}

func (s *Store) Insert(ctx context.Context, rec TradeModel) error {
	if rec.ID == "" {
		return fmt.Errorf("trade record requires an id")
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

// MarkClosed finalizes a trade with its realized PnL.
func (s *Store) MarkClosed(ctx context.Context, id string, pnl float64, closedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&TradeModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    StatusClosed,
			"pnl":       pnl,
			"closed_at": closedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("trade %s not found", id)
	}
	return nil
}

// ListRecent returns the most recently opened trades, newest first,
// optionally filtered by status.
func (s *Store) ListRecent(ctx context.Context, status string, limit int) ([]TradeModel, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Order("opened_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []TradeModel
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
