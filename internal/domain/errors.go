package domain

import "errors"

var (
	ErrInvalidGrade = errors.New("invalid grade")
	ErrInvalidMode  = errors.New("invalid study mode")
)
