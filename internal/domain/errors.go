package domain

import "errors"

// Категории ошибок. Ошибки конкретных слоев оборачивают одну из них,
// поэтому обработчик может сопоставлять как конкретную ошибку, так и категорию.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage fault")
)
