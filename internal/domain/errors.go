package domain

import "errors"

// Repository-level sentinels. Usecases translate these into their own error
// taxonomy; handlers never see them directly.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
