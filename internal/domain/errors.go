package domain

import "errors"

var (
	ErrAuth       = errors.New("credential rejected")
	ErrGeneration = errors.New("generation failed")
	ErrFetch      = errors.New("asset fetch failed")
	ErrDecode     = errors.New("image decode failed")
	ErrBusy       = errors.New("generation already in progress")
	ErrNoResult   = errors.New("no generated mandala")
)
