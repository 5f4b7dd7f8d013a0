package application

import (
	"errors"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// lookupError turns a repository lookup failure into a not-found error when
// the record is absent, otherwise into an internal error tagged with op.
func lookupError(err error, notFound, op string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NotFoundError(notFound)
	}
	return domain.InternalError(op, err)
}
