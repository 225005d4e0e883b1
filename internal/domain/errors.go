package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuestion is returned when the question is empty or malformed.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrCorpusUnavailable is returned when there are no documents to answer from.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrProvider is returned when an embedding or completion call fails.
	ErrProvider = errors.New("provider failed")

	// ErrParse is returned when a corpus record cannot be decoded.
	ErrParse = errors.New("parse document")

	// ErrDimensionMismatch is returned when two vectors of different length are compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// MissingFieldError names the required field a corpus record lacks.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// DuplicateIDError is returned for a record whose id was already loaded.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate document id %q", e.ID)
}
