package models

import "errors"

// Error taxonomy shared by services and the API layer. Services wrap these
// with fmt.Errorf("%w: ...") for detail; handlers match with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrSelfReference  = errors.New("cannot save own recommendation")
	ErrSelfRating     = errors.New("cannot rate own recommendation")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyClaimed = errors.New("offer already claimed")
)
