package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-hrms/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapCreateError translates the storage-level unique violation on
// (user_id, date) into ALREADY_MARKED. The constraint is the definitive
// guard: a concurrent duplicate insert loses the race here, never as a
// generic 500.
func mapCreateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return attendanceerrors.ErrAlreadyMarked
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_attendances_user_date") {
		return attendanceerrors.ErrAlreadyMarked
	}

	return err
}
