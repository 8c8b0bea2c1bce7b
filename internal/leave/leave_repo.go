package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

const allListLimit = 100

type ListFilter struct {
	Status string
	UserID string
}

// Decision is the admin verdict applied to a pending request.
type Decision struct {
	Status          string
	DecidedBy       string
	DecidedAt       time.Time
	RejectionReason *string
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindByIDAndUser(ctx context.Context, userID, id string) (*Leave, error)
	FindAllByUser(ctx context.Context, userID string) ([]Leave, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, userID, id string) error
	HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	ApplyDecision(ctx context.Context, id string, d Decision) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	SumApprovedDays(ctx context.Context) (int64, error)
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

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDAndUser(ctx context.Context, userID, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Leave, error) {
	db := r.db.WithContext(ctx).Preload("User")
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}

	var leaves []Leave
	err := db.Order("created_at DESC").Limit(allListLimit).Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Leave{}, "id = ?", id).Error
}

// HasOverlappingPeriod reports whether the user already holds a pending
// or approved request whose inclusive [start,end] intersects the given
// range. Rejected requests do not block.
func (r *repository) HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// ApplyDecision flips a pending request to its final status in a single
// conditional UPDATE. The status = 'pending' guard makes the decision
// one-shot: a request that was already decided reports false instead of
// being overwritten.
func (r *repository) ApplyDecision(ctx context.Context, id string, d Decision) (bool, error) {
	exec := r.execer()
	if exec == nil {
		return false, sql.ErrConnDone
	}

	res, err := exec.ExecContext(ctx, `
		UPDATE leaves
		SET status = $1, approved_by = $2, approved_at = $3,
		    rejection_reason = $4, updated_at = now()
		WHERE id = $5 AND status = 'pending'
	`, d.Status, d.DecidedBy, d.DecidedAt, d.RejectionReason, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) SumApprovedDays(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("SUM(total_days)").
		Where("status = ?", StatusApproved).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
