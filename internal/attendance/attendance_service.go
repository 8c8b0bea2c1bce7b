package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/shared/workdays"
	"go-hrms/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const statsWindowDays = 30

type Service interface {
	Mark(ctx context.Context, userID string, req MarkAttendanceRequest) (AttendanceResponse, error)
	CheckToday(ctx context.Context, userID string) (TodayResponse, error)
	GetMine(ctx context.Context, userID string, startDate, endDate *time.Time) (MyAttendanceResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
	Stats(ctx context.Context) (AttendanceStats, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, users: users, logger: l}
}

func (s *service) Mark(ctx context.Context, userID string, req MarkAttendanceRequest) (AttendanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("mark attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := workdays.Truncate(now)

	_, err = qtx.FindByUserAndDate(ctx, userID, today)
	if err == nil {
		s.logger.Warn("attendance already marked",
			zap.String("user_id", userID),
			zap.String("date", today.Format("2006-01-02")),
		)
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	row := &Attendance{
		ID:       uuid.New(),
		UserID:   uid,
		Date:     today,
		Status:   StatusPresent,
		MarkedAt: now,
		Notes:    req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, mapCreateError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("mark attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance marked",
		zap.String("attendance_id", row.ID.String()),
		zap.String("user_id", userID),
		zap.String("date", today.Format("2006-01-02")),
	)
	return mapToResponse(*row), nil
}

func (s *service) CheckToday(ctx context.Context, userID string) (TodayResponse, error) {
	today := workdays.Today()

	row, err := s.repo.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TodayResponse{Marked: false, Attendance: nil}, nil
		}
		return TodayResponse{}, err
	}

	resp := mapToResponse(*row)
	return TodayResponse{Marked: true, Attendance: &resp}, nil
}

func (s *service) GetMine(ctx context.Context, userID string, startDate, endDate *time.Time) (MyAttendanceResponse, error) {
	rows, err := s.repo.FindAllByUser(ctx, userID, startDate, endDate)
	if err != nil {
		return MyAttendanceResponse{}, err
	}

	counts := AttendanceCounts{TotalDays: len(rows)}
	for _, a := range rows {
		switch a.Status {
		case StatusPresent:
			counts.PresentDays++
		case StatusLate:
			counts.LateDays++
		}
	}

	return MyAttendanceResponse{
		Attendance: mapToListResponse(rows),
		Stats:      counts,
	}, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	if filter.UserID != "" {
		if _, err := uuid.Parse(filter.UserID); err != nil {
			return nil, attendanceerrors.ErrInvalidUserID
		}
	}
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// Stats is deduplicated with singleflight: dashboards poll it and the
// three counts only change once per marked record.
func (s *service) Stats(ctx context.Context) (AttendanceStats, error) {
	v, err, _ := s.sf.Do("attendance_stats", func() (any, error) {
		today := workdays.Today()
		windowStart := today.AddDate(0, 0, -(statsWindowDays - 1))

		totalEmployees, err := s.users.CountEmployees(ctx)
		if err != nil {
			return nil, err
		}
		presentToday, err := s.repo.CountOnDate(ctx, today)
		if err != nil {
			return nil, err
		}
		last30, err := s.repo.CountSince(ctx, windowStart)
		if err != nil {
			return nil, err
		}

		return AttendanceStats{
			TotalEmployees:       totalEmployees,
			PresentToday:         presentToday,
			AttendanceLast30Days: last30,
		}, nil
	})
	if err != nil {
		return AttendanceStats{}, err
	}
	return v.(AttendanceStats), nil
}
