package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shadowsignal/internal/domain"
)

// Store archives finished games in Postgres
type Store struct {
	conn *gorm.DB
}

// Pool sizes the database connection pool
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to Postgres and migrates the history tables
func Open(dsn string, pool Pool) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("database url is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	store := &Store{conn: conn}
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// Migrate runs GORM auto-migrations for the history tables
func (s *Store) Migrate() error {
	if s.conn == nil {
		return errors.New("db connection is nil")
	}
	if err := s.conn.AutoMigrate(&GameRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// RecordGame stores a finished game
func (s *Store) RecordGame(ctx context.Context, summary domain.GameSummary) error {
	record, err := NewRecord(summary)
	if err != nil {
		return err
	}
	if err := s.conn.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert game %s: %w", summary.RoomCode, err)
	}
	return nil
}

// Recent returns the most recently finished games
func (s *Store) Recent(ctx context.Context, limit int) ([]GameRecord, error) {
	var records []GameRecord
	err := s.conn.WithContext(ctx).
		Order("ended_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return records, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewRecord converts a game summary into its database row
func NewRecord(summary domain.GameSummary) (*GameRecord, error) {
	participants, err := json.Marshal(summary.Participants)
	if err != nil {
		return nil, fmt.Errorf("encode participants: %w", err)
	}

	return &GameRecord{
		RoomCode:     summary.RoomCode,
		Mode:         string(summary.Mode),
		Category:     summary.Category,
		Word:         summary.Word,
		Winner:       string(summary.Winner),
		Rounds:       summary.Rounds,
		PlayerCount:  len(summary.Participants),
		Participants: datatypes.JSON(participants),
		StartedAt:    summary.StartedAt,
		EndedAt:      summary.EndedAt,
	}, nil
}
