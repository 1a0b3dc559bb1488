package service

import (
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
)

// Authorize enforces ownership isolation: the authenticated user may only
// touch resources whose owner ID equals their own. There are no admin
// exceptions. Pure decision function, no side effects.
func Authorize(user *entity.User, resourceOwnerID int64) error {
	if user == nil || user.ID != resourceOwnerID {
		return domainerrors.ErrForbidden
	}

	return nil
}
