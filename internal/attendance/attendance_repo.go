package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

const (
	myListLimit  = 50
	allListLimit = 100
)

type ListFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	FindAllByUser(ctx context.Context, userID string, startDate, endDate *time.Time) ([]Attendance, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error)
	CountOnDate(ctx context.Context, date time.Time) (int64, error)
	CountSince(ctx context.Context, date time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string, startDate, endDate *time.Time) ([]Attendance, error) {
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if startDate != nil && endDate != nil {
		db = db.Where("date BETWEEN ? AND ?",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}

	var rows []Attendance
	err := db.Order("date DESC").Limit(myListLimit).Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error) {
	db := r.db.WithContext(ctx).Preload("User")
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		db = db.Where("date BETWEEN ? AND ?",
			filter.StartDate.Format("2006-01-02"), filter.EndDate.Format("2006-01-02"))
	}

	var rows []Attendance
	err := db.Order("date DESC").Limit(allListLimit).Find(&rows).Error
	return rows, err
}

func (r *repository) CountOnDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *repository) CountSince(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("date >= ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}
