package store

import (
	stdErrors "errors"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSerializationFailure is returned when the database aborted the unit of work because a
// concurrent transaction touched the same rows. The caller may retry.
var ErrSerializationFailure = errors.NewConflictError("Concurrent update, retry the request", errors.ErrCodeSerialization)

// TranslateError turns database aborts caused by concurrency into a typed conflict and leaves
// every other error untouched.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return ErrSerializationFailure.WithCause(err)
		}
	}
	return err
}
