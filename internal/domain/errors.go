package domain

import "errors"

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a uniqueness constraint was violated
	// (account name, or article URL within one account).
	ErrDuplicate = errors.New("duplicate record")

	// ErrEmptyField indicates a required string field was empty after
	// trimming whitespace.
	ErrEmptyField = errors.New("required field is empty")

	// ErrInvalidDate indicates a publish date that does not parse as a
	// calendar date.
	ErrInvalidDate = errors.New("invalid publish date")

	// ErrNoFields indicates a patch with no fields set.
	ErrNoFields = errors.New("no fields to update")

	// ErrEmptyBatch indicates a batch operation with no items.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrReservedAccount indicates an attempt to delete the material
	// library account.
	ErrReservedAccount = errors.New("material library account is reserved")
)
