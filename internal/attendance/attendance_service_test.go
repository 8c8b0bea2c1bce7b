package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/attendance"
	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	withTxFn            func(tx *sql.Tx) attendance.Repository
	createFn            func(ctx context.Context, a *attendance.Attendance) error
	findByUserAndDateFn func(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error)
	findAllByUserFn     func(ctx context.Context, userID string, startDate, endDate *time.Time) ([]attendance.Attendance, error)
	findAllFn           func(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error)
	countOnDateFn       func(ctx context.Context, date time.Time) (int64, error)
	countSinceFn        func(ctx context.Context, date time.Time) (int64, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	if f.findByUserAndDateFn != nil {
		return f.findByUserAndDateFn(ctx, userID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindAllByUser(ctx context.Context, userID string, startDate, endDate *time.Time) ([]attendance.Attendance, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID, startDate, endDate)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) CountOnDate(ctx context.Context, date time.Time) (int64, error) {
	if f.countOnDateFn != nil {
		return f.countOnDateFn(ctx, date)
	}
	return 0, nil
}

func (f *fakeAttendanceRepository) CountSince(ctx context.Context, date time.Time) (int64, error) {
	if f.countSinceFn != nil {
		return f.countSinceFn(ctx, date)
	}
	return 0, nil
}

type fakeUserRepository struct {
	countEmployeesFn func(ctx context.Context) (int64, error)
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }
func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	return nil
}
func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepository) FindAllEmployees(ctx context.Context) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	return nil
}
func (f *fakeUserRepository) CountEmployees(ctx context.Context) (int64, error) {
	if f.countEmployeesFn != nil {
		return f.countEmployeesFn(ctx)
	}
	return 0, nil
}
func (f *fakeUserRepository) DebitLeaveBalance(ctx context.Context, id string, days int) (int, error) {
	return 0, nil
}

type attendanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service attendance.Service
	repo    *fakeAttendanceRepository
	users   *fakeUserRepository
}

func setupAttendanceServiceTest(t *testing.T) *attendanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAttendanceRepository{}
	users := &fakeUserRepository{}
	svc := attendance.NewService(db, repo, users)

	return &attendanceServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		users:   users,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestAttendanceService_Mark(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			assert.Equal(t, uuid.MustParse(userID), a.UserID)
			assert.Equal(t, attendance.StatusPresent, a.Status)
			assert.Equal(t, a.Date, a.Date.Truncate(24*time.Hour))
			assert.Equal(t, time.UTC, a.Date.Location())
			return nil
		}

		resp, err := deps.service.Mark(ctx, userID, attendance.MarkAttendanceRequest{Notes: "on site"})

		assert.NoError(t, err)
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, attendance.StatusPresent, resp.Status)
		assert.Equal(t, "on site", resp.Notes)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already marked today", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{
				ID:     uuid.New(),
				UserID: uuid.MustParse(userID),
				Date:   date,
				Status: attendance.StatusPresent,
			}, nil
		}

		_, err := deps.service.Mark(ctx, userID, attendance.MarkAttendanceRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate insert translates unique violation", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		// The pre-check raced another request, so the unique index fires.
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_attendances_user_date"}
		}

		_, err := deps.service.Mark(ctx, userID, attendance.MarkAttendanceRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative malformed user id", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Mark(ctx, "not-a-uuid", attendance.MarkAttendanceRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidUserID)
	})
}

func TestAttendanceService_CheckToday(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("marked", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			assert.Equal(t, userID, uid)
			return &attendance.Attendance{
				ID:     uuid.New(),
				UserID: uuid.MustParse(userID),
				Date:   date,
				Status: attendance.StatusPresent,
			}, nil
		}

		resp, err := deps.service.CheckToday(ctx, userID)

		assert.NoError(t, err)
		assert.True(t, resp.Marked)
		assert.NotNil(t, resp.Attendance)
	})

	t.Run("not marked", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByUserAndDateFn = func(ctx context.Context, uid string, date time.Time) (*attendance.Attendance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		resp, err := deps.service.CheckToday(ctx, userID)

		assert.NoError(t, err)
		assert.False(t, resp.Marked)
		assert.Nil(t, resp.Attendance)
	})
}

func TestAttendanceService_GetMine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success counts by status", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByUserFn = func(ctx context.Context, uid string, startDate, endDate *time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{
				{ID: uuid.New(), UserID: uuid.MustParse(userID), Status: attendance.StatusPresent},
				{ID: uuid.New(), UserID: uuid.MustParse(userID), Status: attendance.StatusPresent},
				{ID: uuid.New(), UserID: uuid.MustParse(userID), Status: attendance.StatusLate},
			}, nil
		}

		resp, err := deps.service.GetMine(ctx, userID, nil, nil)

		assert.NoError(t, err)
		assert.Equal(t, 3, resp.Stats.TotalDays)
		assert.Equal(t, 2, resp.Stats.PresentDays)
		assert.Equal(t, 1, resp.Stats.LateDays)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByUserFn = func(ctx context.Context, uid string, startDate, endDate *time.Time) ([]attendance.Attendance, error) {
			return nil, errors.New("db error")
		}

		_, err := deps.service.GetMine(ctx, userID, nil, nil)
		assert.Error(t, err)
	})
}

func TestAttendanceService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("negative malformed user filter", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAll(ctx, attendance.ListFilter{UserID: "nope"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidUserID)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		userID := uuid.New()
		deps.repo.findAllFn = func(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
			return []attendance.Attendance{
				{ID: uuid.New(), UserID: userID, Status: attendance.StatusPresent},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, attendance.ListFilter{})

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, userID.String(), resp[0].UserID)
	})
}

func TestAttendanceService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.users.countEmployeesFn = func(ctx context.Context) (int64, error) {
			return 12, nil
		}
		deps.repo.countOnDateFn = func(ctx context.Context, date time.Time) (int64, error) {
			return 9, nil
		}
		var windowStart time.Time
		deps.repo.countSinceFn = func(ctx context.Context, date time.Time) (int64, error) {
			windowStart = date
			return 180, nil
		}

		resp, err := deps.service.Stats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(12), resp.TotalEmployees)
		assert.Equal(t, int64(9), resp.PresentToday)
		assert.Equal(t, int64(180), resp.AttendanceLast30Days)

		// Window is today minus 29 days, inclusive of today.
		today := time.Now().UTC().Truncate(24 * time.Hour)
		assert.Equal(t, today.AddDate(0, 0, -29), windowStart)
	})

	t.Run("negative count error", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.users.countEmployeesFn = func(ctx context.Context) (int64, error) {
			return 0, errors.New("db error")
		}

		_, err := deps.service.Stats(ctx)
		assert.Error(t, err)
	})
}
