package model

import "errors"

// Error kinds surfaced by the core packages. All are detected at
// construction, decode, or evaluate time; once a configuration has
// validated, a training run executes to completion.
var (
	ErrConfiguration   = errors.New("invalid configuration")
	ErrGenomeLength    = errors.New("genome length mismatch")
	ErrEmptyPopulation = errors.New("empty population")
)
