package leave

import (
	"errors"
	"net/http"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// invalid_text_representation: a malformed uuid never names a request
		case "22P02":
			return leaveerrors.ErrLeaveNotFound
		// serialization_failure, lock_not_available
		case "40001", "55P03":
			return apperror.Wrap(err, apperror.CodeConflict, "Leave request is being updated, please retry", http.StatusConflict)
		}
	}

	return err
}
