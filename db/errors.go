package db

import "fmt"

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrInvalidData   = fmt.Errorf("invalid data provided")
	ErrAlreadyExists = fmt.Errorf("already exists")
	ErrDefaultInUse  = fmt.Errorf("default payout method cannot be deleted")
)
