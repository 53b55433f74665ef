package service

import "errors"

func isSaveFailed(err error) bool {
	return errors.Is(err, ErrSaveFailed)
}
