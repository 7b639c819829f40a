package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lab-attendance-backend/internal/model"
)

// Store defines the persistence contract for attendance records.
type Store interface {
	// Append persists a new visit.
	Append(ctx context.Context, rec model.AttendanceRecord) error
	// ResolveLogout sets the logout time of the latest open visit for
	// registerNumber, or returns ErrNotFound.
	ResolveLogout(ctx context.Context, registerNumber string, now time.Time) error
	// LoadAll returns every visit in insertion order.
	LoadAll(ctx context.Context) ([]model.AttendanceRecord, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Append inserts rec as a new row. The database assigns the row id, which
// is the store order used to break login time ties. Times are stored in UTC
// so that sqlite's text columns sort in instant order.
func (s *gormStore) Append(ctx context.Context, rec model.AttendanceRecord) error {
	rec.ID = 0
	rec.LoginTime = rec.LoginTime.UTC()
	if rec.LogoutTime != nil {
		out := rec.LogoutTime.UTC()
		rec.LogoutTime = &out
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return storageErr("append", fmt.Errorf("failed to insert record for %s: %w", rec.RegisterNumber, err))
	}
	return nil
}

// ResolveLogout closes the latest open visit in a single conditional UPDATE
// so that two concurrent logouts can never resolve the same row.
func (s *gormStore) ResolveLogout(ctx context.Context, registerNumber string, now time.Time) error {
	db := s.db.WithContext(ctx)
	latest := db.Model(&model.AttendanceRecord{}).
		Select("id").
		Where("register_number = ? AND logout_time IS NULL", registerNumber).
		Order("login_time DESC").
		Order("id DESC").
		Limit(1)

	res := db.Model(&model.AttendanceRecord{}).
		Where("id = (?)", latest).
		Where("logout_time IS NULL").
		Update("logout_time", now.UTC())
	if res.Error != nil {
		return storageErr("resolve logout", fmt.Errorf("failed to update record for %s: %w", registerNumber, res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadAll returns all rows ordered by id.
func (s *gormStore) LoadAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	records := make([]model.AttendanceRecord, 0)
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, storageErr("load", fmt.Errorf("failed to fetch records: %w", err))
	}
	return records, nil
}
