package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/workdays"
	"go-hrms/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error)
	GetMine(ctx context.Context, userID string) (MyLeavesResponse, error)
	UpdateMine(ctx context.Context, userID, leaveID string, req UpdateLeaveRequest) (LeaveResponse, error)
	CancelMine(ctx context.Context, userID, leaveID string) error
	GetAll(ctx context.Context, filter ListFilter) (AllLeavesResponse, error)
	Decide(ctx context.Context, adminID, leaveID string, req DecideLeaveRequest) (LeaveResponse, error)
	Stats(ctx context.Context) (LeaveStats, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	outbox kafka.OutboxRepository
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, users user.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, users: users, outbox: outbox, logger: l}
}

// validatePeriod parses and checks a requested date range, returning the
// normalized dates and the number of billable working days.
func validatePeriod(startDate, endDate string) (time.Time, time.Time, int, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateFormat
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateRange
	}

	totalDays := workdays.Count(start, end)
	if totalDays == 0 {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrNoWorkingDays
	}

	return start, end, totalDays, nil
}

func (s *service) Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	start, end, totalDays, err := validatePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	overlaps, err := s.repo.HasOverlappingPeriod(ctx, userID, start, end, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlaps {
		s.logger.Warn("overlapping leave request rejected",
			zap.String("user_id", userID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	row := &Leave{
		ID:        uuid.New(),
		UserID:    uid,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		TotalDays: totalDays,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("create leave failed", zap.String("user_id", userID), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave applied",
		zap.String("leave_id", row.ID.String()),
		zap.String("user_id", userID),
		zap.String("leave_type", row.LeaveType),
		zap.Int("total_days", totalDays),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetMine(ctx context.Context, userID string) (MyLeavesResponse, error) {
	rows, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return MyLeavesResponse{}, err
	}

	stats := MyLeavesStats{TotalLeaves: len(rows)}
	for _, l := range rows {
		switch l.Status {
		case StatusPending:
			stats.PendingLeaves++
		case StatusApproved:
			stats.ApprovedLeaves++
			stats.TotalDaysTaken += l.TotalDays
		case StatusRejected:
			stats.RejectedLeaves++
		}
	}

	return MyLeavesResponse{
		Leaves: mapToListResponse(rows),
		Stats:  stats,
	}, nil
}

func (s *service) UpdateMine(ctx context.Context, userID, leaveID string, req UpdateLeaveRequest) (LeaveResponse, error) {
	row, err := s.repo.FindByIDAndUser(ctx, userID, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if row.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	startDate := row.StartDate.Format(dateLayout)
	endDate := row.EndDate.Format(dateLayout)
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
	}

	// The edited range goes through the same gate as a fresh application,
	// excluding the request itself from the overlap check.
	start, end, totalDays, err := validatePeriod(startDate, endDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	overlaps, err := s.repo.HasOverlappingPeriod(ctx, userID, start, end, &leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlaps {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if req.LeaveType != nil {
		row.LeaveType = *req.LeaveType
	}
	if req.Reason != nil {
		row.Reason = *req.Reason
	}
	row.StartDate = start
	row.EndDate = end
	row.TotalDays = totalDays

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update leave failed", zap.String("leave_id", leaveID), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave updated",
		zap.String("leave_id", leaveID),
		zap.String("user_id", userID),
		zap.Int("total_days", totalDays),
	)
	return mapToResponse(*row), nil
}

func (s *service) CancelMine(ctx context.Context, userID, leaveID string) error {
	row, err := s.repo.FindByIDAndUser(ctx, userID, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if row.Status != StatusPending {
		return leaveerrors.ErrLeaveNotPending
	}

	if err := s.repo.Delete(ctx, userID, leaveID); err != nil {
		s.logger.Error("cancel leave failed", zap.String("leave_id", leaveID), zap.Error(err))
		return err
	}

	s.logger.Info("leave cancelled",
		zap.String("leave_id", leaveID),
		zap.String("user_id", userID),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) (AllLeavesResponse, error) {
	if filter.UserID != "" {
		if _, err := uuid.Parse(filter.UserID); err != nil {
			return AllLeavesResponse{}, leaveerrors.ErrInvalidUserID
		}
	}
	switch filter.Status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		return AllLeavesResponse{}, leaveerrors.ErrInvalidStatus
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return AllLeavesResponse{}, err
	}

	counts, err := s.statusCounts(ctx)
	if err != nil {
		return AllLeavesResponse{}, err
	}

	return AllLeavesResponse{
		Leaves: mapToListResponse(rows),
		Stats:  counts,
	}, nil
}

// Decide applies an admin verdict to a pending request. Approval debits
// the requester's balance, and the decision event lands in the outbox
// inside the same transaction, so either everything commits or nothing
// does.
func (s *service) Decide(ctx context.Context, adminID, leaveID string, req DecideLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(adminID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	row, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if row.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	decision := Decision{
		Status:    req.Status,
		DecidedBy: adminID,
		DecidedAt: now,
	}
	if req.Status == StatusRejected {
		decision.RejectionReason = req.RejectionReason
	}

	qtx := s.repo.WithTx(tx)
	updated, err := qtx.ApplyDecision(ctx, leaveID, decision)
	if err != nil {
		s.logger.Error("apply leave decision failed", zap.String("leave_id", leaveID), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !updated {
		// Lost the race to another admin.
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	if req.Status == StatusApproved {
		remaining, err := s.users.WithTx(tx).DebitLeaveBalance(ctx, row.UserID.String(), row.TotalDays)
		if err != nil {
			s.logger.Warn("leave balance debit rejected",
				zap.String("leave_id", leaveID),
				zap.String("user_id", row.UserID.String()),
				zap.Int("total_days", row.TotalDays),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
		s.logger.Info("leave balance debited",
			zap.String("user_id", row.UserID.String()),
			zap.Int("days", row.TotalDays),
			zap.Int("remaining", remaining),
		)
	}

	if s.outbox != nil {
		rid := contextutil.GetRequestID(ctx)
		event := events.LeaveDecisionEvent{
			EventType:       "leave_" + req.Status,
			RequestID:       rid,
			LeaveID:         row.ID.String(),
			UserID:          row.UserID.String(),
			LeaveType:       row.LeaveType,
			Status:          req.Status,
			TotalDays:       row.TotalDays,
			DecidedBy:       adminID,
			RejectionReason: decision.RejectionReason,
			OccurredAt:      now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal leave decision event failed", zap.Error(err))
			return LeaveResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave",
			AggregateID:   row.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LeaveDecisionTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("leave decision outbox persist failed",
				zap.String("leave_id", leaveID),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", leaveID), zap.Error(err))
		return LeaveResponse{}, err
	}

	row.Status = req.Status
	adminUID, _ := uuid.Parse(adminID)
	row.ApprovedBy = &adminUID
	row.ApprovedAt = &now
	row.RejectionReason = decision.RejectionReason

	s.logger.Info("leave decided",
		zap.String("leave_id", leaveID),
		zap.String("status", req.Status),
		zap.String("decided_by", adminID),
	)
	return mapToResponse(*row), nil
}

func (s *service) statusCounts(ctx context.Context) (StatusCounts, error) {
	pending, err := s.repo.CountByStatus(ctx, StatusPending)
	if err != nil {
		return StatusCounts{}, err
	}
	approved, err := s.repo.CountByStatus(ctx, StatusApproved)
	if err != nil {
		return StatusCounts{}, err
	}
	rejected, err := s.repo.CountByStatus(ctx, StatusRejected)
	if err != nil {
		return StatusCounts{}, err
	}
	return StatusCounts{
		PendingCount:  pending,
		ApprovedCount: approved,
		RejectedCount: rejected,
	}, nil
}

// Stats is deduplicated with singleflight, same as the attendance
// dashboard counters.
func (s *service) Stats(ctx context.Context) (LeaveStats, error) {
	v, err, _ := s.sf.Do("leave_stats", func() (any, error) {
		counts, err := s.statusCounts(ctx)
		if err != nil {
			return nil, err
		}
		totalApprovedDays, err := s.repo.SumApprovedDays(ctx)
		if err != nil {
			return nil, err
		}
		return LeaveStats{
			StatusCounts:      counts,
			TotalDaysApproved: totalApprovedDays,
		}, nil
	})
	if err != nil {
		return LeaveStats{}, err
	}
	return v.(LeaveStats), nil
}
