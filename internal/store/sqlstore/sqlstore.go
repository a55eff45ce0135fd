// Package sqlstore keeps job records in a SQL table through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
)

// Row is the persisted shape of a job record.
type Row struct {
	Owner          string `gorm:"primaryKey;size:64"`
	ID             string `gorm:"primaryKey;size:64"`
	Status         string `gorm:"size:16;not null;index"`
	Message        string `gorm:"type:text"`
	Transcript     string `gorm:"type:text"`
	Summary        string `gorm:"type:text"`
	SuggestedTopic string `gorm:"size:512"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Row) TableName() string { return "jobs" }

var keyColumns = []clause.Column{{Name: "owner"}, {Name: "id"}}

type sqlStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the sqlite database at path.
func OpenSQLite(path string) (store.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return New(db)
}

// New migrates the jobs table on db and returns a Store backed by it.
func New(db *gorm.DB) (store.Store, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrate jobs table: %w", err)
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) Create(ctx context.Context, owner, id string, rec job.Record) error {
	row := toRow(owner, id, rec)
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: keyColumns, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return fmt.Errorf("create job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *sqlStore) Put(ctx context.Context, owner, id string, rec job.Record) error {
	row := toRow(owner, id, rec)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   keyColumns,
			DoUpdates: clause.AssignmentColumns([]string{"status", "message", "transcript", "summary", "suggested_topic", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("put job: %w", err)
	}
	return nil
}

func (s *sqlStore) Get(ctx context.Context, owner, id string) (job.Record, error) {
	var row Row
	err := s.db.WithContext(ctx).
		Where("owner = ? AND id = ?", owner, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job.Record{}, store.ErrNotFound
		}
		return job.Record{}, fmt.Errorf("get job: %w", err)
	}
	return row.record(), nil
}

func (s *sqlStore) Exists(ctx context.Context, owner, id string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Row{}).
		Where("owner = ? AND id = ?", owner, id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check job: %w", err)
	}
	return n > 0, nil
}

func (s *sqlStore) List(ctx context.Context, owner string) ([]job.Entry, error) {
	var rows []Row
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	out := make([]job.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, job.Entry{ID: row.ID, Record: row.record()})
	}
	return out, nil
}

func (s *sqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(owner, id string, rec job.Record) Row {
	row := Row{
		Owner:   owner,
		ID:      id,
		Status:  string(rec.Status),
		Message: rec.Message,
	}
	if rec.Result != nil {
		row.Transcript = rec.Result.Transcript
		row.Summary = rec.Result.Summary
		row.SuggestedTopic = rec.Result.SuggestedTopic
	}
	return row
}

func (r Row) record() job.Record {
	rec := job.Record{Status: job.Status(r.Status), Message: r.Message}
	if rec.Status == job.StatusCompleted {
		rec.Result = &job.Result{
			Transcript:     r.Transcript,
			Summary:        r.Summary,
			SuggestedTopic: r.SuggestedTopic,
		}
	}
	return rec
}
