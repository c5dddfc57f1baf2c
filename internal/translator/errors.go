package translator

import "errors"

// Sentinel errors returned by Translator's public entry points. Wrapped
// with fmt.Errorf("...: %w", ...) at each layer, matching the plain
// stdlib-errors style used throughout this module's core.
var (
	// ErrNotFound is returned when a lookup addresses a function that has
	// never been translated.
	ErrNotFound = errors.New("translator: function not found")

	// ErrFinalized is returned when a mutation is attempted against a
	// Translator that has already been finalized.
	ErrFinalized = errors.New("translator: already finalized")

	// ErrLiftFailure is returned when the external Lifter fails to
	// translate a block, or delivers fewer instructions than requested
	// without advancing realEnd past the block's start address.
	ErrLiftFailure = errors.New("translator: lift failure")

	// ErrUnknownEntry is returned when an on-demand translation lookup is
	// asked to translate an address absent from the catalog.
	ErrUnknownEntry = errors.New("translator: entry not present in catalog")
)
