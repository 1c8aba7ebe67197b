package repo

import (
	"errors"

	"store-rating/backend/app/apperr"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the application taxonomy. what names the
// entity for NotFound/Conflict messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(what + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.NotFound("referenced record not found")
	default:
		return apperr.Internal(pkgerrors.Wrap(err, what), "database error")
	}
}
